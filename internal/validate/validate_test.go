package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

func defaultConfig() config.ValidateConfig {
	return config.ValidateConfig{
		ClashCoeff: 0.6,
		BondMin:    1.0,
		BondMax:    2.0,
		CoordBound: 1000.0,
	}
}

// cleanChain builds n residues with N and C backbone atoms spaced so
// every junction bond is 1.5 and no non-bonded pair clashes
func cleanChain(n int) *chain.Structure {
	s := &chain.Structure{ID: "clean"}
	for i := 0; i < n; i++ {
		x := float64(i) * 3
		s.Residues = append(s.Residues, chain.Residue{
			Index: i,
			Name:  "ALA",
			Atoms: []chain.Atom{
				{Name: "N", Element: "N", Pos: geom.Vec3{X: x}, ResIndex: i, Backbone: true},
				{Name: "C", Element: "C", Pos: geom.Vec3{X: x + 1.5}, ResIndex: i, Backbone: true},
			},
		})
	}
	return s
}

// plant adds a side-chain carbon to residue resIndex at pos
func plant(s *chain.Structure, resIndex int, pos geom.Vec3) {
	s.Residues[resIndex].Atoms = append(s.Residues[resIndex].Atoms, chain.Atom{
		Name:     "CB",
		Element:  "C",
		Pos:      pos,
		ResIndex: resIndex,
	})
}

func TestValidator_Validate_cleanStructure(t *testing.T) {
	v := New(defaultConfig())
	rep := v.Validate(cleanChain(4))

	if !rep.Valid {
		t.Fatalf("clean structure reported invalid: %s", rep.Reason)
	}
	if rep.ClashCount != 0 {
		t.Errorf("ClashCount = %d, want 0", rep.ClashCount)
	}
}

func TestValidator_Validate_corruptCoordinate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*chain.Structure)
	}{
		{
			"nan coordinate",
			func(s *chain.Structure) { s.Residues[1].Atoms[0].Pos.Y = math.NaN() },
		},
		{
			"infinite coordinate",
			func(s *chain.Structure) { s.Residues[1].Atoms[0].Pos.Z = math.Inf(1) },
		},
		{
			"coordinate out of bounds",
			func(s *chain.Structure) { s.Residues[1].Atoms[0].Pos.X = 5000 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cleanChain(4)
			tt.mutate(s)

			rep := New(defaultConfig()).Validate(s)
			if rep.Valid {
				t.Fatal("corrupt structure reported valid")
			}
			if !errors.Is(rep.Err, ErrCorruptCoordinate) {
				t.Errorf("Err = %v, want ErrCorruptCoordinate", rep.Err)
			}
		})
	}
}

func TestValidator_Validate_brokenBackbone(t *testing.T) {
	s := cleanChain(4)

	// stretch the junction between residues 1 and 2 to 3.5
	for i := 2; i < 4; i++ {
		for j := range s.Residues[i].Atoms {
			s.Residues[i].Atoms[j].Pos.X += 2.0
		}
	}

	rep := New(defaultConfig()).Validate(s)
	if rep.Valid {
		t.Fatal("broken-backbone structure reported valid")
	}
	if !errors.Is(rep.Err, ErrBrokenBackbone) {
		t.Errorf("Err = %v, want ErrBrokenBackbone", rep.Err)
	}
	if rep.BrokenResidue != 1 {
		t.Errorf("BrokenResidue = %d, want 1", rep.BrokenResidue)
	}
}

func TestValidator_clashCensus(t *testing.T) {
	// two carbons 0.5 apart: threshold is 0.6*(1.70+1.70) = 2.04,
	// so they clash; the same pair at 4.0 does not
	tests := []struct {
		name        string
		separation  float64
		wantClashes int
	}{
		{"half-unit apart", 0.5, 1},
		{"four units apart", 4.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cleanChain(5)
			plant(s, 0, geom.Vec3{Y: 10})
			plant(s, 3, geom.Vec3{Y: 10 + tt.separation})

			rep := New(defaultConfig()).Validate(s)
			if !rep.Valid {
				t.Fatalf("structure reported invalid: %s", rep.Reason)
			}
			if rep.ClashCount != tt.wantClashes {
				t.Errorf("ClashCount = %d, want %d", rep.ClashCount, tt.wantClashes)
			}
			if tt.wantClashes > 0 && math.Abs(rep.WorstDistance-tt.separation) > 1e-9 {
				t.Errorf("WorstDistance = %v, want %v", rep.WorstDistance, tt.separation)
			}
		})
	}
}

func TestValidator_FullReport_scansBrokenBackbone(t *testing.T) {
	s := cleanChain(5)

	// break the backbone and plant a clash
	for j := range s.Residues[4].Atoms {
		s.Residues[4].Atoms[j].Pos.X += 5
	}
	plant(s, 0, geom.Vec3{Y: 10})
	plant(s, 3, geom.Vec3{Y: 10.5})

	v := New(defaultConfig())

	// the short-circuiting pass skips the clash scan
	quick := v.Validate(s)
	if quick.Valid {
		t.Fatal("broken structure reported valid")
	}

	// the full report still runs it
	full := v.FullReport(s)
	if full.Valid {
		t.Fatal("FullReport() reported broken structure valid")
	}
	if full.ClashCount != 1 {
		t.Errorf("FullReport() ClashCount = %d, want 1", full.ClashCount)
	}
}
