package pipeline

import (
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/energy"
)

// Reason classifies why a candidate left the pipeline. The
// distribution of reasons is what lets an operator distinguish
// "sampling produced garbage" from "refinement destabilized good
// input"
type Reason string

const (
	// ReasonCorruptCoordinate is a NaN/Inf or out-of-bound position
	// caught before refinement
	ReasonCorruptCoordinate Reason = "corrupt-coordinate"

	// ReasonBrokenBackbone is a junction bond-length violation
	// caught before refinement
	ReasonBrokenBackbone Reason = "broken-backbone"

	// ReasonExcessiveClash is a pre-refinement clash count over the
	// ceiling; recovery is judged too costly to attempt
	ReasonExcessiveClash Reason = "excessive-clash"

	// ReasonRefineFailed is a strategy failure: budget exhausted or
	// unstable geometry
	ReasonRefineFailed Reason = "refine-failed"

	// ReasonRefineDestabilized is a refinement output that failed
	// re-validation or exceeded the clash ceiling; the output is
	// discarded whole, never partially kept
	ReasonRefineDestabilized Reason = "refine-destabilized"
)

// Winner is the selected candidate and its bookkeeping
type Winner struct {
	Structure *chain.Structure
	Energy    energy.Breakdown
	Clashes   int

	// Score is energy total plus the per-clash penalty; the pipeline
	// keeps the minimum
	Score float64

	// RMSD against the reference structure, for reporting only.
	// Meaningful only when RMSDValid is set
	RMSD      float64
	RMSDValid bool

	// ordinal is the candidate's submission position, the stable
	// tie-break when scores are equal
	ordinal int
}

// Report summarizes one pipeline run
type Report struct {
	// Submitted is the ensemble size entering the refining phase
	Submitted int

	// Survived is how many candidates reached selection scoring
	Survived int

	// Rejections is the count per rejection reason
	Rejections map[Reason]int

	// Best is nil when every candidate was rejected. An empty
	// selection is a reported outcome, distinct from a run error
	Best *Winner

	// BaselineEnergy and BaselineClashes describe the unfiltered
	// baseline structure, for regression comparison
	BaselineEnergy  float64
	BaselineClashes int
}

// Empty reports whether the run ended with no surviving candidate
func (r *Report) Empty() bool {
	return r.Best == nil
}
