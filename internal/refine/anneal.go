package refine

import (
	"math"
	"math/rand"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// annealer is stochastic annealing: single-atom Metropolis moves
// accepted with probability exp(-dE/T) under a geometric cooling
// schedule. It escapes local minima the gradient strategies can't,
// and its move source is seeded from config so runs are repeatable
type annealer struct {
	cfg config.RefineConfig
	ev  *energy.Evaluator
}

func (a *annealer) Name() string { return "anneal" }

func (a *annealer) Refine(s *chain.Structure) (Result, error) {
	work := s.Clone()
	atoms := work.Atoms()
	if len(atoms) == 0 {
		return Result{}, ErrBudgetExhausted
	}

	rng := rand.New(rand.NewSource(a.cfg.Seed))
	temp := a.cfg.StartTemperature

	current := a.ev.Evaluate(work).Total
	best := current
	bestCoords := work.Coords()

	for step := 0; step < a.cfg.MaxIterations; step++ {
		atom := atoms[rng.Intn(len(atoms))]
		move := geom.Vec3{
			X: rng.NormFloat64() * a.cfg.StepSize,
			Y: rng.NormFloat64() * a.cfg.StepSize,
			Z: rng.NormFloat64() * a.cfg.StepSize,
		}
		if l := move.Length(); l > a.cfg.MaxDisplacement {
			move = move.Scale(a.cfg.MaxDisplacement / l)
		}

		before := atom.Pos
		atom.Pos = before.Add(move)
		trial := a.ev.Evaluate(work).Total

		dE := trial - current
		if dE <= 0 || (temp > 0 && rng.Float64() < math.Exp(-dE/temp)) {
			current = trial
			if current < best {
				best = current
				bestCoords = work.Coords()
			}
		} else {
			atom.Pos = before // rejected move
		}

		temp *= a.cfg.CoolingRate
	}

	// hand back the best coordinates seen, not wherever the walk
	// happened to end
	if err := work.SetCoords(bestCoords); err != nil {
		return Result{}, err
	}
	return finish(a.ev, work)
}
