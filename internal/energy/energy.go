// Package energy computes the aggregate potential energy of a
// candidate structure: additive bonded, non-bonded, hydrogen-bond
// and solvation terms, with the total hard-saturated to a fixed band
// so numerically corrupted geometry can't overflow downstream
// arithmetic. A Breakdown is recomputed on demand and never cached
// across mutation
package energy

import (
	"math"

	"github.com/sarat-asymmetrica/foldvedic/config"
	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
)

// Breakdown is the per-term decomposition of a structure's energy
type Breakdown struct {
	VdW           float64
	Electrostatic float64
	Bond          float64
	Angle         float64
	Dihedral      float64
	HBond         float64
	Solvation     float64

	// Total is the sum of all terms clamped to the configured band
	Total float64

	// Clamped is set when saturation fired. It is a diagnostic flag,
	// not an error: magnitude beyond the band carries no additional
	// information once corruption is already evident to the validator
	Clamped bool
}

// Evaluator computes energies with a fixed configuration. It is
// stateless and safe for concurrent use
type Evaluator struct {
	cfg config.EnergyConfig
}

// New returns an Evaluator using the passed settings
func New(cfg config.EnergyConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate computes every term and the clamped total
func (e *Evaluator) Evaluate(s *chain.Structure) Breakdown {
	b := Breakdown{
		VdW:           vanDerWaals(s),
		Electrostatic: electrostatic(s),
		Bond:          bondEnergy(s),
		Angle:         angleEnergy(s),
		Dihedral:      dihedralEnergy(s),
		HBond:         hydrogenBond(s),
		Solvation:     solvation(s),
	}

	total := b.VdW + b.Electrostatic + b.Bond + b.Angle + b.Dihedral + b.HBond + b.Solvation
	b.Total, b.Clamped = e.clamp(total)
	return b
}

// clamp saturates an energy to the configured band. Values outside
// it are set to the nearest bound, never rescaled; clamping an
// already-clamped value is a no-op. NaN saturates to the upper bound
// so a corrupt energy can never look attractive
func (e *Evaluator) clamp(total float64) (float64, bool) {
	switch {
	case math.IsNaN(total):
		return e.cfg.ClampMax, true
	case total < e.cfg.ClampMin:
		return e.cfg.ClampMin, true
	case total > e.cfg.ClampMax:
		return e.cfg.ClampMax, true
	}
	return total, false
}

// gradient step size for the central difference
const fdStep = 1e-5

// Gradient fills out with the central-difference gradient of the
// clamped total over the structure's flattened coordinates. The
// structure's coordinates are restored before returning. out must
// have length 3 * NumAtoms
func (e *Evaluator) Gradient(s *chain.Structure, out []float64) {
	coords := s.Coords()
	for i := range coords {
		orig := coords[i]

		coords[i] = orig + fdStep
		s.SetCoords(coords)
		plus := e.Evaluate(s).Total

		coords[i] = orig - fdStep
		s.SetCoords(coords)
		minus := e.Evaluate(s).Total

		coords[i] = orig
		out[i] = (plus - minus) / (2 * fdStep)
	}
	s.SetCoords(coords)
}
