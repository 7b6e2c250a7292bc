package validate

import "github.com/sarat-asymmetrica/foldvedic/internal/chain"

// InvalidScore is the sentinel quality for a structurally invalid
// candidate. A large negative value, not 0, so an invalid structure
// can never tie with a legitimately bad-but-valid score of 0
const InvalidScore = -1e9

// clashFloor is the clash count at which quality bottoms out at 0
const clashFloor = 10.0

// Score collapses a validation report into a single quality scalar
// for ranking: 1.0 for a clean structure, decaying linearly to 0 at
// ten clashes, or InvalidScore when the structure fails validation.
// The linear decay is a deliberately simple monotone mapping, not a
// physical energy term
func (v *Validator) Score(s *chain.Structure) (float64, Report) {
	rep := v.Validate(s)
	if !rep.Valid {
		return InvalidScore, rep
	}

	quality := 1 - float64(rep.ClashCount)/clashFloor
	if quality < 0 {
		quality = 0
	}
	return quality, rep
}
