// Package validate decides whether a candidate structure is
// physically admissible: finite coordinates, bounded extent, an
// unbroken backbone, and a census of steric clashes. A Report is
// recomputed on every call and never cached inside a structure,
// because any coordinate change invalidates it
package validate

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// Structural failure classes. These reject a candidate outright;
// they are never recovered in place
var (
	// ErrCorruptCoordinate is a NaN, Inf or out-of-bound atom position
	ErrCorruptCoordinate = errors.New("validate: corrupt coordinate")

	// ErrBrokenBackbone is a bond-length violation at a residue junction
	ErrBrokenBackbone = errors.New("validate: broken backbone")
)

// Report is the outcome of one validation pass
type Report struct {
	// ClashCount is the number of non-bonded atom pairs closer than
	// the clash threshold
	ClashCount int

	// WorstDistance is the smallest inter-atom distance seen during
	// the clash scan, 0 if no pair was examined
	WorstDistance float64

	// Valid is false when any structural check failed
	Valid bool

	// Reason describes the failure for logs; empty when valid
	Reason string

	// BrokenResidue is the index of the residue whose junction bond
	// failed, -1 otherwise
	BrokenResidue int

	// Err classifies the failure; nil when valid
	Err error
}

// Validator runs the structural checks with a fixed configuration.
// It is stateless and safe for concurrent use
type Validator struct {
	cfg config.ValidateConfig
}

// New returns a Validator using the passed settings
func New(cfg config.ValidateConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs the checks from cheapest to most expensive and stops
// at the first failure: coordinate sanity catches catastrophic
// corruption before the O(n^2) clash scan is paid for
func (v *Validator) Validate(s *chain.Structure) Report {
	return v.run(s, false)
}

// FullReport is like Validate but always runs the clash scan, even
// on a structure that already failed a structural check, for callers
// that want the complete picture
func (v *Validator) FullReport(s *chain.Structure) Report {
	return v.run(s, true)
}

func (v *Validator) run(s *chain.Structure, full bool) Report {
	rep := Report{Valid: true, BrokenResidue: -1}

	if !v.checkCoords(s, &rep) {
		if !full {
			return rep
		}
	} else if !v.checkBackbone(s, &rep) {
		if !full {
			return rep
		}
	}

	// the clash scan is safe to run even on a backbone-broken
	// structure, but not on non-finite coordinates
	if rep.Err == nil || !errors.Is(rep.Err, ErrCorruptCoordinate) {
		rep.ClashCount, rep.WorstDistance = v.clashCensus(s)
	}
	return rep
}

// checkCoords fails fast on non-finite coordinates, then rejects any
// atom further from the chain centroid than the configured bound.
// Unbounded atoms indicate numerical blow-up, not biology
func (v *Validator) checkCoords(s *chain.Structure, rep *Report) bool {
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			if !s.Residues[i].Atoms[j].Pos.Finite() {
				rep.Valid = false
				rep.Err = ErrCorruptCoordinate
				rep.Reason = fmt.Sprintf("non-finite coordinate on atom %s of residue %d",
					s.Residues[i].Atoms[j].Name, i)
				return false
			}
		}
	}

	center := s.Centroid()
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			if geom.Distance(s.Residues[i].Atoms[j].Pos, center) > v.cfg.CoordBound {
				rep.Valid = false
				rep.Err = ErrCorruptCoordinate
				rep.Reason = fmt.Sprintf("coordinate out of bounds on atom %s of residue %d",
					s.Residues[i].Atoms[j].Name, i)
				return false
			}
		}
	}
	return true
}

// checkBackbone verifies chain continuity: the bond between the
// terminal backbone atom of residue i and the initial backbone atom
// of residue i+1 must fall inside the configured range
func (v *Validator) checkBackbone(s *chain.Structure, rep *Report) bool {
	for i := 0; i+1 < len(s.Residues); i++ {
		tail := lastBackboneAtom(&s.Residues[i])
		head := firstBackboneAtom(&s.Residues[i+1])
		if tail == nil || head == nil {
			continue
		}

		bond := geom.Distance(tail.Pos, head.Pos)
		if bond < v.cfg.BondMin || bond > v.cfg.BondMax {
			rep.Valid = false
			rep.Err = ErrBrokenBackbone
			rep.BrokenResidue = i
			rep.Reason = fmt.Sprintf("broken backbone: %.2f bond between residues %d and %d", bond, i, i+1)
			return false
		}
	}
	return true
}

// clashCensus scans every unordered, non-excluded atom pair and
// counts those closer than coeff * (r_i + r_j). The O(n^2) scan is
// intentionally simple; determinism matters more than asymptotic
// cleverness at the atom counts involved
func (v *Validator) clashCensus(s *chain.Structure) (count int, worst float64) {
	worst = math.Inf(1)
	seen := false

	s.ForNonBondedPairs(func(a, b *chain.Atom) {
		seen = true
		dist := geom.Distance(a.Pos, b.Pos)
		if dist < worst {
			worst = dist
		}

		threshold := v.cfg.ClashCoeff * (geom.VdwRadius(a.Element) + geom.VdwRadius(b.Element))
		if dist < threshold {
			count++
		}
	})

	if !seen {
		worst = 0
	}
	return count, worst
}

// lastBackboneAtom returns the final main-chain atom of a residue.
// The carbonyl carbon is preferred over the terminal oxygen because
// the peptide bond forms at C, not O
func lastBackboneAtom(r *chain.Residue) *chain.Atom {
	for j := range r.Atoms {
		if r.Atoms[j].Name == "C" {
			return &r.Atoms[j]
		}
	}
	var last *chain.Atom
	for j := range r.Atoms {
		if r.Atoms[j].Backbone {
			last = &r.Atoms[j]
		}
	}
	return last
}

// firstBackboneAtom returns the initial main-chain atom of a residue
func firstBackboneAtom(r *chain.Residue) *chain.Atom {
	for j := range r.Atoms {
		if r.Atoms[j].Name == "N" {
			return &r.Atoms[j]
		}
	}
	for j := range r.Atoms {
		if r.Atoms[j].Backbone {
			return &r.Atoms[j]
		}
	}
	return nil
}
