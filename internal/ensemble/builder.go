// Package ensemble produces candidate structures for the pipeline: a
// deterministic extended-chain builder for the baseline and a seeded
// perturbation sampler for the diversity ensemble. It satisfies the
// producer contract the orchestrator consumes: zero or more
// structures, no ordering guarantee
package ensemble

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// one-letter to three-letter amino acid codes
var aminoAcids = map[byte]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'Q': "GLN", 'E': "GLU", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
}

// backbone geometry of the extended starting chain. The per-residue
// spacing puts each junction C-N bond at exactly the 1.33 peptide
// ideal
const (
	residueSpacing = 4.31
	nToCA          = 1.46
	caToC          = 1.52 + 1.46 // C sits at 2.98 from N
	carbonylLift   = 1.23
)

// Build constructs an extended backbone chain (N, CA, C, O per
// residue at ideal bond lengths) from a one-letter sequence
func Build(sequence string) (*chain.Structure, error) {
	sequence = strings.ToUpper(strings.TrimSpace(sequence))
	if sequence == "" {
		return nil, fmt.Errorf("ensemble: empty sequence")
	}

	s := &chain.Structure{
		ID:       uuid.New().String(),
		Residues: make([]chain.Residue, 0, len(sequence)),
	}
	for i := 0; i < len(sequence); i++ {
		name, ok := aminoAcids[sequence[i]]
		if !ok {
			return nil, fmt.Errorf("ensemble: unknown amino acid %q at position %d", sequence[i], i)
		}

		x0 := float64(i) * residueSpacing
		s.Residues = append(s.Residues, chain.Residue{
			Index: i,
			Name:  name,
			Atoms: []chain.Atom{
				{Name: "N", Element: "N", Pos: geom.Vec3{X: x0}, ResIndex: i, Backbone: true},
				{Name: "CA", Element: "C", Pos: geom.Vec3{X: x0 + nToCA}, ResIndex: i, Backbone: true},
				{Name: "C", Element: "C", Pos: geom.Vec3{X: x0 + caToC}, ResIndex: i, Backbone: true},
				{Name: "O", Element: "O", Pos: geom.Vec3{X: x0 + caToC, Y: carbonylLift}, ResIndex: i, Backbone: true},
			},
		})
	}
	return s, nil
}
