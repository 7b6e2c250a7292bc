package chain

import (
	"errors"
	"math"
	"testing"

	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

func caStructure(n int) *Structure {
	s := &Structure{ID: "rmsd-test"}
	for i := 0; i < n; i++ {
		s.Residues = append(s.Residues, Residue{
			Index: i,
			Name:  "GLY",
			Atoms: []Atom{
				{Name: "CA", Element: "C", Pos: geom.Vec3{X: float64(i) * 3.8}, ResIndex: i, Backbone: true},
			},
		})
	}
	return s
}

func TestRMSD(t *testing.T) {
	a := caStructure(5)

	t.Run("identical structures", func(t *testing.T) {
		got, err := RMSD(a, a.Clone())
		if err != nil {
			t.Fatalf("RMSD() error = %v", err)
		}
		if got != 0 {
			t.Errorf("RMSD() = %v, want 0", got)
		}
	})

	t.Run("uniform translation", func(t *testing.T) {
		b := a.Clone()
		for _, atom := range b.Atoms() {
			atom.Pos.Y += 2.0
		}
		got, err := RMSD(a, b)
		if err != nil {
			t.Fatalf("RMSD() error = %v", err)
		}
		if math.Abs(got-2.0) > 1e-9 {
			t.Errorf("RMSD() = %v, want 2.0", got)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := RMSD(a, caStructure(4))
		if !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("RMSD() error = %v, want ErrLengthMismatch", err)
		}
	})
}
