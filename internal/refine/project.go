package refine

import (
	"gonum.org/v1/gonum/floats"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
)

// ideal bond lengths the projection pass restores toward
const (
	projectPeptideBond = 1.33
	projectNCaBond     = 1.46
	projectCaCBond     = 1.52
)

// projector alternates one bounded gradient step with a projection
// pass that pulls consecutive backbone bonds back toward ideal
// lengths, weighted by the configured constraint strength. The
// projection keeps the minimizer from trading backbone integrity
// for non-bonded energy
type projector struct {
	cfg config.RefineConfig
	ev  *energy.Evaluator
}

func (p *projector) Name() string { return "project" }

func (p *projector) Refine(s *chain.Structure) (Result, error) {
	work := s.Clone()
	coords := work.Coords()
	grad := make([]float64, len(coords))

	prevEnergy := p.ev.Evaluate(work).Total

	for iter := 0; iter < p.cfg.MaxIterations; iter++ {
		// energy-minimization half-step
		p.ev.Gradient(work, grad)
		floats.Scale(-p.cfg.StepSize, grad)
		capStep(grad, p.cfg.MaxDisplacement)
		floats.Add(coords, grad)
		if err := work.SetCoords(coords); err != nil {
			return Result{}, err
		}

		// constraint-projection half-step
		p.projectBonds(work)
		coords = work.Coords()

		e := p.ev.Evaluate(work).Total
		if diff := prevEnergy - e; diff > 0 && diff < p.cfg.EnergyTol {
			break
		}
		prevEnergy = e
	}

	return finish(p.ev, work)
}

// projectBonds moves each consecutive backbone atom pair along its
// separation vector so the bond length shifts toward ideal by the
// constraint weight. Both endpoints move half the correction, so
// the chain's center stays put
func (p *projector) projectBonds(s *chain.Structure) {
	var bb []*chain.Atom
	for _, a := range s.Atoms() {
		if a.Backbone && a.Name != "O" {
			bb = append(bb, a)
		}
	}

	for i := 0; i+1 < len(bb); i++ {
		a, b := bb[i], bb[i+1]

		ideal := projectCaCBond
		switch {
		case a.ResIndex != b.ResIndex:
			ideal = projectPeptideBond
		case b.Name == "CA":
			ideal = projectNCaBond
		}

		sep := b.Pos.Sub(a.Pos)
		dist := sep.Length()
		if dist == 0 {
			continue
		}

		correction := p.cfg.ConstraintWeight * (dist - ideal) / dist
		half := sep.Scale(correction / 2)
		a.Pos = a.Pos.Add(half)
		b.Pos = b.Pos.Sub(half)
	}
}
