package ensemble

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// Sampler produces candidate ensembles by bounded Gaussian
// perturbation of a baseline structure. Each candidate gets its own
// sub-seed derived from the sampler seed and its position, so an
// ensemble is reproducible for a given seed regardless of size
type Sampler struct {
	// Seed fixes the perturbation stream
	Seed int64

	// Scale is the standard deviation, in length-units, of the
	// per-coordinate displacement
	Scale float64
}

// Ensemble returns n independent perturbed copies of base. Ownership
// of each copy passes to the caller
func (sm *Sampler) Ensemble(base *chain.Structure, n int) []*chain.Structure {
	candidates := make([]*chain.Structure, 0, n)
	for i := 0; i < n; i++ {
		c := base.Clone()
		c.ID = uuid.New().String()

		rng := rand.New(rand.NewSource(sm.Seed + int64(i)))
		for _, a := range c.Atoms() {
			a.Pos = a.Pos.Add(geom.Vec3{
				X: rng.NormFloat64() * sm.Scale,
				Y: rng.NormFloat64() * sm.Scale,
				Z: rng.NormFloat64() * sm.Scale,
			})
		}
		candidates = append(candidates, c)
	}
	return candidates
}
