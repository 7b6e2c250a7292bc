package refine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
)

// quasiNewton minimizes the clamped energy with limited-memory BFGS.
// Converges faster than plain relaxation but is less forgiving of
// rough energy surfaces, so its output displacement is checked
// against the configured bound before being accepted
type quasiNewton struct {
	cfg config.RefineConfig
	ev  *energy.Evaluator
}

func (q *quasiNewton) Name() string { return "lbfgs" }

func (q *quasiNewton) Refine(s *chain.Structure) (Result, error) {
	work := s.Clone()
	x0 := work.Coords()

	// the objective evaluates a scratch copy so the optimizer's
	// probing never touches the working structure
	scratch := work.Clone()
	objective := func(x []float64) float64 {
		if err := scratch.SetCoords(x); err != nil {
			return math.Inf(1) // can't happen: x always matches x0's layout
		}
		return q.ev.Evaluate(scratch).Total
	}

	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   q.cfg.MaxIterations,
		GradientThreshold: q.cfg.GradientTol,
		Converger: &optimize.FunctionConverge{
			Absolute:   q.cfg.EnergyTol,
			Iterations: 20,
		},
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBudgetExhausted, err)
	}

	// a minimizer that walked the chain further than the whole step
	// budget allows has exploded the geometry, not refined it
	if maxAtomShift(x0, res.X) > q.cfg.MaxDisplacement*float64(q.cfg.MaxIterations) {
		return Result{}, ErrUnstable
	}

	if err := work.SetCoords(res.X); err != nil {
		return Result{}, err
	}
	return finish(q.ev, work)
}
