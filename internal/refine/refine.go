// Package refine holds the structure-improving strategies. Each is a
// pure transformation: it clones its input before mutating anything
// (copy-on-refine), enforces its own iteration budget, and fails
// rather than hand back a degenerate structure. The strategy set is
// closed and selected by configuration; new strategies are added by
// extending the switch in New, not by open-ended dispatch
package refine

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
)

var (
	// ErrBudgetExhausted means the strategy spent its iteration/step
	// budget without producing a finite-energy, coordinate-valid
	// result. Local to one (candidate, strategy) pair, never fatal
	ErrBudgetExhausted = errors.New("refine: budget exhausted without a valid result")

	// ErrUnstable means the optimizer produced geometry that moved
	// further than the configured displacement bound allows
	ErrUnstable = errors.New("refine: refinement produced unstable geometry")

	// ErrUnknownStrategy is an unrecognized strategy name in config
	ErrUnknownStrategy = errors.New("refine: unknown strategy")
)

// Result is the outcome of one successful refinement: the refined
// structure, whose ownership passes to the caller, and its energy
type Result struct {
	Structure *chain.Structure
	Energy    energy.Breakdown
}

// Refiner is the common capability all strategies implement
type Refiner interface {
	// Name returns the configuration name of the strategy
	Name() string

	// Refine returns an improved copy of s or an error. s itself is
	// never mutated
	Refine(s *chain.Structure) (Result, error)
}

// New selects a strategy from the closed variant set by name
func New(name string, cfg config.RefineConfig, ev *energy.Evaluator) (Refiner, error) {
	switch name {
	case "relax":
		return &relaxer{cfg: cfg, ev: ev}, nil
	case "lbfgs":
		return &quasiNewton{cfg: cfg, ev: ev}, nil
	case "anneal":
		return &annealer{cfg: cfg, ev: ev}, nil
	case "project":
		return &projector{cfg: cfg, ev: ev}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// finish verifies the refined copy before handing it back: every
// coordinate finite, energy evaluable. Anything else is reported as
// budget exhaustion so the caller discards the attempt
func finish(ev *energy.Evaluator, s *chain.Structure) (Result, error) {
	for _, a := range s.Atoms() {
		if !a.Pos.Finite() {
			return Result{}, ErrBudgetExhausted
		}
	}
	b := ev.Evaluate(s)
	if math.IsNaN(b.Total) || math.IsInf(b.Total, 0) {
		return Result{}, ErrBudgetExhausted
	}
	return Result{Structure: s, Energy: b}, nil
}

// capStep bounds the per-atom displacement of a flattened step
// vector so a single move can never explode the geometry
func capStep(step []float64, maxDisp float64) {
	for i := 0; i+2 < len(step); i += 3 {
		norm := math.Sqrt(step[i]*step[i] + step[i+1]*step[i+1] + step[i+2]*step[i+2])
		if norm > maxDisp && norm > 0 {
			f := maxDisp / norm
			step[i] *= f
			step[i+1] *= f
			step[i+2] *= f
		}
	}
}

// maxAtomShift returns the largest per-atom displacement between two
// flattened coordinate slices of equal length
func maxAtomShift(a, b []float64) float64 {
	worst := 0.0
	for i := 0; i+2 < len(a); i += 3 {
		dx := a[i] - b[i]
		dy := a[i+1] - b[i+1]
		dz := a[i+2] - b[i+2]
		if d := math.Sqrt(dx*dx + dy*dy + dz*dz); d > worst {
			worst = d
		}
	}
	return worst
}
