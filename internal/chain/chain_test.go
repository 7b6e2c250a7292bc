package chain

import (
	"testing"

	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// twoAtomResidue builds a minimal residue with backbone N and C atoms
func twoAtomResidue(index int, x float64) Residue {
	return Residue{
		Index: index,
		Name:  "ALA",
		Atoms: []Atom{
			{Name: "N", Element: "N", Pos: geom.Vec3{X: x}, ResIndex: index, Backbone: true},
			{Name: "C", Element: "C", Pos: geom.Vec3{X: x + 1.5}, ResIndex: index, Backbone: true},
		},
	}
}

func testStructure(n int) *Structure {
	s := &Structure{ID: "test"}
	for i := 0; i < n; i++ {
		s.Residues = append(s.Residues, twoAtomResidue(i, float64(i)*3))
	}
	return s
}

func TestStructure_Clone(t *testing.T) {
	s := testStructure(3)
	c := s.Clone()

	// mutating the clone must not touch the original
	c.Residues[0].Atoms[0].Pos.X = 99
	if s.Residues[0].Atoms[0].Pos.X == 99 {
		t.Error("Clone() shares atom storage with the original")
	}

	if c.NumAtoms() != s.NumAtoms() {
		t.Errorf("Clone() has %d atoms, want %d", c.NumAtoms(), s.NumAtoms())
	}
}

func TestStructure_CoordsRoundTrip(t *testing.T) {
	s := testStructure(2)
	coords := s.Coords()

	if len(coords) != s.NumAtoms()*3 {
		t.Fatalf("Coords() has %d values, want %d", len(coords), s.NumAtoms()*3)
	}

	coords[0] = 42.5
	if err := s.SetCoords(coords); err != nil {
		t.Fatalf("SetCoords() error = %v", err)
	}
	if got := s.Residues[0].Atoms[0].Pos.X; got != 42.5 {
		t.Errorf("SetCoords() first x = %v, want 42.5", got)
	}

	// a wrong-length slice must be rejected, not silently truncated
	if err := s.SetCoords(coords[:3]); err == nil {
		t.Error("SetCoords() accepted a short coordinate slice")
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name   string
		ra, rb int
		want   bool
	}{
		{"same residue", 4, 4, true},
		{"adjacent residues", 4, 5, true},
		{"adjacent reversed", 5, 4, true},
		{"two apart", 4, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Atom{ResIndex: tt.ra}
			b := &Atom{ResIndex: tt.rb}
			if got := Excluded(a, b); got != tt.want {
				t.Errorf("Excluded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStructure_ForNonBondedPairs(t *testing.T) {
	// 3 residues x 2 atoms: only residue pairs (0,2) are non-adjacent,
	// giving 2x2 = 4 atom pairs
	s := testStructure(3)

	count := 0
	s.ForNonBondedPairs(func(a, b *Atom) {
		count++
		if Excluded(a, b) {
			t.Errorf("pair (%d,%d) should have been excluded", a.ResIndex, b.ResIndex)
		}
	})
	if count != 4 {
		t.Errorf("visited %d pairs, want 4", count)
	}
}
