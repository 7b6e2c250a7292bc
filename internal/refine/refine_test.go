package refine

import (
	"errors"
	"math"
	"testing"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

func testRefineConfig() config.RefineConfig {
	return config.RefineConfig{
		MaxIterations:    100,
		StepSize:         0.002,
		MaxDisplacement:  0.3,
		EnergyTol:        1e-9,
		GradientTol:      1e-3,
		StartTemperature: 5.0,
		CoolingRate:      0.95,
		ConstraintWeight: 0.5,
		Seed:             1637,
	}
}

func testEvaluator() *energy.Evaluator {
	return energy.New(config.EnergyConfig{ClampMin: -10000, ClampMax: 10000})
}

// backboneChain builds an ideal extended chain of N, CA, C, O residues
func backboneChain(n int) *chain.Structure {
	s := &chain.Structure{ID: "refine-test"}
	for i := 0; i < n; i++ {
		x := float64(i) * 4.31
		s.Residues = append(s.Residues, chain.Residue{
			Index: i,
			Name:  "ALA",
			Atoms: []chain.Atom{
				{Name: "N", Element: "N", Pos: geom.Vec3{X: x}, ResIndex: i, Backbone: true},
				{Name: "CA", Element: "C", Pos: geom.Vec3{X: x + 1.46}, ResIndex: i, Backbone: true},
				{Name: "C", Element: "C", Pos: geom.Vec3{X: x + 2.98}, ResIndex: i, Backbone: true},
				{Name: "O", Element: "O", Pos: geom.Vec3{X: x + 2.98, Y: 1.23}, ResIndex: i, Backbone: true},
			},
		})
	}
	return s
}

// stretchedChain pulls residues 1..n-1 outward so the first junction
// bond is 1 unit too long, a cheap energy surplus to minimize away
func stretchedChain(n int) *chain.Structure {
	s := backboneChain(n)
	for i := 1; i < n; i++ {
		for j := range s.Residues[i].Atoms {
			s.Residues[i].Atoms[j].Pos.X += 1.0
		}
	}
	return s
}

func TestNew(t *testing.T) {
	ev := testEvaluator()
	for _, name := range []string{"relax", "lbfgs", "anneal", "project"} {
		r, err := New(name, testRefineConfig(), ev)
		if err != nil {
			t.Errorf("New(%q) error = %v", name, err)
			continue
		}
		if r.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, r.Name())
		}
	}

	if _, err := New("downhill-skiing", testRefineConfig(), ev); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("New(unknown) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestRefiners_reduceEnergy(t *testing.T) {
	ev := testEvaluator()

	for _, name := range []string{"relax", "lbfgs", "project"} {
		t.Run(name, func(t *testing.T) {
			s := stretchedChain(3)
			before := ev.Evaluate(s).Total
			beforeCoords := s.Coords()

			r, err := New(name, testRefineConfig(), ev)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			res, err := r.Refine(s)
			if err != nil {
				t.Fatalf("Refine() error = %v", err)
			}

			if res.Energy.Total >= before {
				t.Errorf("refined energy %v, want below starting %v", res.Energy.Total, before)
			}

			// copy-on-refine: the input must be untouched
			after := s.Coords()
			for i := range beforeCoords {
				if beforeCoords[i] != after[i] {
					t.Fatal("Refine() mutated its input structure")
				}
			}
		})
	}
}

func TestRefiners_failOnCorruptInput(t *testing.T) {
	ev := testEvaluator()
	s := backboneChain(3)
	s.Residues[1].Atoms[0].Pos.X = math.NaN()

	r, err := New("relax", testRefineConfig(), ev)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r.Refine(s); !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("Refine(corrupt) error = %v, want ErrBudgetExhausted", err)
	}
}

func TestAnnealer_deterministicForSeed(t *testing.T) {
	ev := testEvaluator()
	cfg := testRefineConfig()
	cfg.MaxIterations = 50

	run := func() Result {
		r, err := New("anneal", cfg, ev)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		res, err := r.Refine(stretchedChain(3))
		if err != nil {
			t.Fatalf("Refine() error = %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.Energy.Total != b.Energy.Total {
		t.Fatalf("same seed produced energies %v and %v", a.Energy.Total, b.Energy.Total)
	}

	ca, cb := a.Structure.Coords(), b.Structure.Coords()
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("same seed produced different coordinates at %d", i)
		}
	}
}

func TestAnnealer_neverWorseThanInput(t *testing.T) {
	ev := testEvaluator()
	s := stretchedChain(3)
	before := ev.Evaluate(s).Total

	r, err := New("anneal", testRefineConfig(), ev)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := r.Refine(s)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if res.Energy.Total > before {
		t.Errorf("annealer returned %v, worse than the input's %v", res.Energy.Total, before)
	}
}

func TestProjector_restoresBondLength(t *testing.T) {
	ev := testEvaluator()
	s := stretchedChain(3)

	junction := func(st *chain.Structure) float64 {
		c := &st.Residues[0].Atoms[2] // C of residue 0
		n := &st.Residues[1].Atoms[0] // N of residue 1
		return geom.Distance(c.Pos, n.Pos)
	}
	before := junction(s)

	r, err := New("project", testRefineConfig(), ev)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := r.Refine(s)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}

	after := junction(res.Structure)
	if math.Abs(after-1.33) >= math.Abs(before-1.33) {
		t.Errorf("junction bond went from %v to %v, want closer to 1.33", before, after)
	}
}

func TestCapStep(t *testing.T) {
	step := []float64{3, 4, 0, 0.1, 0, 0} // atom 0 moves 5, atom 1 moves 0.1
	capStep(step, 1.0)

	norm0 := math.Sqrt(step[0]*step[0] + step[1]*step[1] + step[2]*step[2])
	if math.Abs(norm0-1.0) > 1e-12 {
		t.Errorf("capped displacement = %v, want 1.0", norm0)
	}
	if step[3] != 0.1 {
		t.Errorf("small displacement was rescaled: %v", step[3])
	}
}
