package chain

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrLengthMismatch means the two structures don't have the same
// number of alpha carbons, so no deviation can be computed
var ErrLengthMismatch = errors.New("chain: structures have different alpha-carbon counts")

// caCoords returns the flattened coordinates of the alpha carbons
func caCoords(s *Structure) []float64 {
	var coords []float64
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			if s.Residues[i].Atoms[j].Name == "CA" {
				p := s.Residues[i].Atoms[j].Pos
				coords = append(coords, p.X, p.Y, p.Z)
			}
		}
	}
	return coords
}

// RMSD returns the root-mean-square deviation between the alpha
// carbons of two equal-length structures. It is a benchmarking
// metric only; selection inside the pipeline never uses it
func RMSD(a, b *Structure) (float64, error) {
	ca := caCoords(a)
	cb := caCoords(b)
	if len(ca) == 0 || len(ca) != len(cb) {
		return 0, ErrLengthMismatch
	}

	va := mat.NewVecDense(len(ca), ca)
	vb := mat.NewVecDense(len(cb), cb)

	diff := mat.NewVecDense(len(ca), nil)
	diff.SubVec(va, vb)

	n := float64(len(ca) / 3)
	return mat.Norm(diff, 2) / math.Sqrt(n), nil
}
