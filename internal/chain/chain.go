// Package chain holds the candidate structure model: a single
// polypeptide chain of residues whose atom coordinates are mutated in
// place during refinement. A Structure is exclusively owned by one
// pipeline stage at a time; stages that need an independent copy call
// Clone rather than sharing
package chain

import (
	"fmt"

	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// Atom is a single atom within a residue
type Atom struct {
	// Name is the PDB-style atom name, e.g. "CA" or "N"
	Name string

	// Element is the element symbol used for radius lookups
	Element string

	// Pos is the atom's coordinate, mutable during refinement
	Pos geom.Vec3

	// ResIndex is the index of the owning residue within the chain
	ResIndex int

	// Backbone marks main-chain atoms (N, CA, C, O)
	Backbone bool
}

// Residue is one amino acid in the chain. Its atom set is fixed after
// construction; only the atom coordinates change
type Residue struct {
	// Index is the residue's ordered position within the chain
	Index int

	// Name is the three-letter amino acid code, e.g. "ALA"
	Name string

	Atoms []Atom
}

// Structure is an ordered sequence of residues forming one chain
type Structure struct {
	// ID identifies the candidate in logs and reports
	ID string

	Residues []Residue
}

// NumAtoms returns the total atom count across all residues
func (s *Structure) NumAtoms() int {
	n := 0
	for i := range s.Residues {
		n += len(s.Residues[i].Atoms)
	}
	return n
}

// Atoms returns pointers to every atom in chain order. The pointers
// reference the structure's own storage, so writes through them
// mutate the structure
func (s *Structure) Atoms() []*Atom {
	atoms := make([]*Atom, 0, s.NumAtoms())
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			atoms = append(atoms, &s.Residues[i].Atoms[j])
		}
	}
	return atoms
}

// Centroid returns the geometric center of all atoms
func (s *Structure) Centroid() geom.Vec3 {
	var sum geom.Vec3
	n := 0
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			sum = sum.Add(s.Residues[i].Atoms[j].Pos)
			n++
		}
	}
	if n == 0 {
		return geom.Vec3{}
	}
	return sum.Scale(1 / float64(n))
}

// Clone returns a deep copy of the structure. Refinement strategies
// clone before mutating so a failed attempt never corrupts the input
func (s *Structure) Clone() *Structure {
	c := &Structure{
		ID:       s.ID,
		Residues: make([]Residue, len(s.Residues)),
	}
	for i, r := range s.Residues {
		cr := r
		cr.Atoms = make([]Atom, len(r.Atoms))
		copy(cr.Atoms, r.Atoms)
		c.Residues[i] = cr
	}
	return c
}

// Coords returns the atom coordinates flattened to x,y,z triples in
// chain order, the layout the optimizers work on
func (s *Structure) Coords() []float64 {
	coords := make([]float64, 0, s.NumAtoms()*3)
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			p := s.Residues[i].Atoms[j].Pos
			coords = append(coords, p.X, p.Y, p.Z)
		}
	}
	return coords
}

// SetCoords writes a flattened coordinate slice back onto the atoms
// in place. The atom set is never reallocated mid-pass
func (s *Structure) SetCoords(coords []float64) error {
	if len(coords) != s.NumAtoms()*3 {
		return fmt.Errorf("chain: coordinate slice has %d values, structure needs %d", len(coords), s.NumAtoms()*3)
	}
	k := 0
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			s.Residues[i].Atoms[j].Pos = geom.Vec3{
				X: coords[k],
				Y: coords[k+1],
				Z: coords[k+2],
			}
			k += 3
		}
	}
	return nil
}

// Excluded reports whether a pair of atoms is skipped by the
// non-bonded scans: atoms in the same or adjacent residues are
// treated as covalently connected, so their legitimately short
// contacts are not counted as clashes or non-bonded interactions
func Excluded(a, b *Atom) bool {
	d := a.ResIndex - b.ResIndex
	return d >= -1 && d <= 1
}

// ForNonBondedPairs calls fn for every unordered atom pair that is
// not excluded by the same/adjacent-residue rule. The clash census
// and the non-bonded energy terms share this exclusion
func (s *Structure) ForNonBondedPairs(fn func(a, b *Atom)) {
	atoms := s.Atoms()
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			if Excluded(atoms[i], atoms[j]) {
				continue
			}
			fn(atoms[i], atoms[j])
		}
	}
}
