package refine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
)

// relaxer is gentle gradient relaxation: small, bounded steps down
// the local energy gradient with backtracking when a step overshoots.
// The low-risk default strategy
type relaxer struct {
	cfg config.RefineConfig
	ev  *energy.Evaluator
}

func (r *relaxer) Name() string { return "relax" }

func (r *relaxer) Refine(s *chain.Structure) (Result, error) {
	work := s.Clone()
	coords := work.Coords()
	grad := make([]float64, len(coords))
	trial := make([]float64, len(coords))

	best := r.ev.Evaluate(work).Total
	step := r.cfg.StepSize

	for iter := 0; iter < r.cfg.MaxIterations; iter++ {
		r.ev.Gradient(work, grad)

		// walk downhill, halving the step until the energy drops
		improved := false
		for backtrack := 0; backtrack < 8; backtrack++ {
			floats.ScaleTo(trial, -step, grad)
			capStep(trial, r.cfg.MaxDisplacement)
			floats.Add(trial, coords)

			if err := work.SetCoords(trial); err != nil {
				return Result{}, err
			}
			if e := r.ev.Evaluate(work).Total; e < best {
				if math.Abs(best-e) < r.cfg.EnergyTol {
					copy(coords, trial)
					best = e
					return finish(r.ev, work)
				}
				copy(coords, trial)
				best = e
				improved = true
				break
			}
			step /= 2
		}

		if !improved {
			// no downhill direction at any step size: local minimum
			if err := work.SetCoords(coords); err != nil {
				return Result{}, err
			}
			return finish(r.ev, work)
		}
	}

	// budget spent; the coordinates held the best energy seen, which
	// is still a valid (if unconverged) result
	if err := work.SetCoords(coords); err != nil {
		return Result{}, err
	}
	return finish(r.ev, work)
}
