// Package pipeline drives candidate structures through the
// three-phase refinement pipeline: an unfiltered baseline, an
// unfiltered sampling ensemble, then per-candidate validation,
// refinement and re-validation, ending in selection of the lowest
// clash-penalized energy score. Per-candidate failures remove
// exactly one candidate; only an empty ensemble is fatal
package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
	"github.com/sarat-asymmetrica/foldvedic/internal/refine"
	"github.com/sarat-asymmetrica/foldvedic/internal/validate"
)

var (
	// ErrEmptyEnsemble means Run was started with zero candidates, a
	// structurally impossible configuration
	ErrEmptyEnsemble = errors.New("pipeline: no candidates to refine")

	// ErrWrongPhase means a phase method was called out of order
	ErrWrongPhase = errors.New("pipeline: phase method called out of order")
)

// phase is the orchestrator's state machine position
type phase int

const (
	phaseBaseline phase = iota
	phaseSampling
	phaseRefining
	phaseSelected
)

// Pipeline orchestrates one run. Construct with New, then
// SetBaseline, AddCandidates and Run in that order
type Pipeline struct {
	cfg       config.Config
	validator *validate.Validator
	evaluator *energy.Evaluator
	refiner   refine.Refiner
	log       *zap.SugaredLogger

	phase      phase
	baseline   *chain.Structure
	reference  *chain.Structure
	candidates []*chain.Structure

	// best-candidate tracker, the only shared mutable state between
	// workers; guarded by mu
	mu   sync.Mutex
	best *Winner
}

// New wires a pipeline from configuration. The logger may be nil
func New(cfg config.Config, refiner refine.Refiner, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pipeline{
		cfg:       cfg,
		validator: validate.New(cfg.Validate),
		evaluator: energy.New(cfg.Energy),
		refiner:   refiner,
		log:       log,
	}
}

// SetBaseline accepts the externally produced initial structure.
// Deliberately permissive: the baseline is never filtered, it exists
// for regression comparison
func (p *Pipeline) SetBaseline(s *chain.Structure) error {
	if p.phase != phaseBaseline {
		return ErrWrongPhase
	}
	p.baseline = s
	p.phase = phaseSampling
	return nil
}

// SetReference installs an optional reference structure. The winner's
// deviation from it is reported, never used for selection
func (p *Pipeline) SetReference(s *chain.Structure) {
	p.reference = s
}

// AddCandidates appends the sampling ensemble. No filtering happens
// here; raw diversity is preserved into the refining phase
func (p *Pipeline) AddCandidates(candidates []*chain.Structure) error {
	if p.phase != phaseSampling {
		return ErrWrongPhase
	}
	p.candidates = append(p.candidates, candidates...)
	return nil
}

// Run refines every candidate independently on a worker pool and
// selects the survivor with the lowest clash-penalized energy score.
// Rejected candidates are permanently dropped, never retried: the
// ensemble's diversity is the retry mechanism
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.phase != phaseSampling {
		return nil, ErrWrongPhase
	}
	if len(p.candidates) == 0 {
		return nil, ErrEmptyEnsemble
	}
	p.phase = phaseRefining

	report := &Report{
		Submitted:  len(p.candidates),
		Rejections: make(map[Reason]int),
	}
	if p.baseline != nil {
		report.BaselineEnergy = p.evaluator.Evaluate(p.baseline).Total
		report.BaselineClashes = p.validator.FullReport(p.baseline).ClashCount
	}

	workers := p.cfg.Pipeline.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(p.candidates) {
		workers = len(p.candidates)
	}

	type job struct {
		ordinal int
		s       *chain.Structure
	}
	jobs := make(chan job)

	var reportMu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				winner, reason := p.processCandidate(j.ordinal, j.s)
				if winner == nil {
					reportMu.Lock()
					report.Rejections[reason]++
					reportMu.Unlock()
					continue
				}

				reportMu.Lock()
				report.Survived++
				reportMu.Unlock()
				p.offer(winner)
			}
		}()
	}

	for i, s := range p.candidates {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- job{ordinal: i, s: s}:
		}
	}
	close(jobs)
	wg.Wait()
	p.phase = phaseSelected

	report.Best = p.best
	if p.best != nil && p.reference != nil {
		if rmsd, err := chain.RMSD(p.best.Structure, p.reference); err == nil {
			p.best.RMSD = rmsd
			p.best.RMSDValid = true
		}
	}

	p.log.Infow("refining phase complete",
		"submitted", report.Submitted,
		"survived", report.Survived,
		"rejections", report.Rejections,
		"selected", !report.Empty(),
	)
	return report, nil
}

// processCandidate walks one candidate through the refining state:
// validate, gate on the clash ceiling, refine, re-validate, score.
// Each worker owns its candidate exclusively for the whole walk, so
// no locking is needed on structure data
func (p *Pipeline) processCandidate(ordinal int, s *chain.Structure) (*Winner, Reason) {
	rep := p.validator.Validate(s)
	if !rep.Valid {
		reason := ReasonCorruptCoordinate
		if errors.Is(rep.Err, validate.ErrBrokenBackbone) {
			reason = ReasonBrokenBackbone
		}
		p.log.Debugw("candidate rejected before refinement",
			"candidate", s.ID, "reason", rep.Reason)
		return nil, reason
	}
	if rep.ClashCount > p.cfg.Pipeline.ClashCeiling {
		p.log.Debugw("candidate rejected: too many clashes to refine",
			"candidate", s.ID, "clashes", rep.ClashCount)
		return nil, ReasonExcessiveClash
	}

	res, err := p.refiner.Refine(s)
	if err != nil {
		p.log.Debugw("refinement failed",
			"candidate", s.ID, "strategy", p.refiner.Name(), "error", err)
		return nil, ReasonRefineFailed
	}

	// re-validate: a refinement that broke the structure or pushed
	// clashes over the ceiling is presumed unstable and its output
	// is discarded whole
	after := p.validator.Validate(res.Structure)
	if !after.Valid || after.ClashCount > p.cfg.Pipeline.ClashCeiling {
		p.log.Debugw("refinement destabilized candidate",
			"candidate", s.ID, "valid", after.Valid, "clashes", after.ClashCount)
		return nil, ReasonRefineDestabilized
	}

	score := res.Energy.Total + p.cfg.Pipeline.ClashPenalty*float64(after.ClashCount)
	return &Winner{
		Structure: res.Structure,
		Energy:    res.Energy,
		Clashes:   after.ClashCount,
		Score:     score,
		ordinal:   ordinal,
	}, ""
}

// offer is the single point of serialization for the best-candidate
// tracker. Lower score wins; on a tie the candidate submitted first
// wins, which keeps selection deterministic regardless of worker
// scheduling
func (p *Pipeline) offer(w *Winner) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.best == nil ||
		w.Score < p.best.Score ||
		(w.Score == p.best.Score && w.ordinal < p.best.ordinal) {
		p.best = w
	}
}
