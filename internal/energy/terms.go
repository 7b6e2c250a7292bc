package energy

import (
	"math"

	"github.com/sarat-asymmetrica/foldvedic/internal/chain"
	"github.com/sarat-asymmetrica/foldvedic/internal/geom"
)

// force-field constants. Harmonic constants are deliberately soft so
// a slightly distorted chain scores poorly without instantly
// saturating the clamp
const (
	// Lennard-Jones well depth, energy-units
	ljEpsilon = 0.2

	// Coulomb constant scaled for partial charges in electron units
	coulombK = 332.0

	// harmonic spring constants
	bondK  = 100.0
	angleK = 5.0

	// ideal bonded geometry
	peptideBondLength = 1.33
	nCaBondLength     = 1.46
	caCBondLength     = 1.52
	idealAngle        = 111.0 * math.Pi / 180

	// hydrogen-bond geometry: donor N to acceptor O
	hbondMinDist  = 2.5
	hbondMaxDist  = 3.5
	hbondMinAngle = 100.0 * math.Pi / 180
	hbondEnergy   = -2.0

	// solvation: contact radius and per-contact weight
	burialRadius    = 8.0
	burialThreshold = 4
	solvationK      = 0.1
)

// residues with hydrophobic side chains, rewarded for burial
var hydrophobic = map[string]bool{
	"ALA": true,
	"VAL": true,
	"LEU": true,
	"ILE": true,
	"MET": true,
	"PHE": true,
	"TRP": true,
	"PRO": true,
	"CYS": true,
}

// vanDerWaals is the pairwise Lennard-Jones 12-6 term over all
// non-bonded, non-adjacent atom pairs, with sigma drawn from the
// same radius table the clash census uses
func vanDerWaals(s *chain.Structure) float64 {
	total := 0.0
	s.ForNonBondedPairs(func(a, b *chain.Atom) {
		r := geom.Distance(a.Pos, b.Pos)
		if r == 0 {
			return // coincident atoms are the validator's problem
		}
		sigma := (geom.VdwRadius(a.Element) + geom.VdwRadius(b.Element)) / 2
		sr6 := math.Pow(sigma/r, 6)
		total += 4 * ljEpsilon * (sr6*sr6 - sr6)
	})
	return total
}

// electrostatic is the pairwise Coulomb term over the same pair set
func electrostatic(s *chain.Structure) float64 {
	total := 0.0
	s.ForNonBondedPairs(func(a, b *chain.Atom) {
		qa := geom.PartialCharge(a.Name)
		qb := geom.PartialCharge(b.Name)
		if qa == 0 || qb == 0 {
			return
		}
		r := geom.Distance(a.Pos, b.Pos)
		if r == 0 {
			return
		}
		total += coulombK * qa * qb / r / 100
	})
	return total
}

// idealBondLength is the reference length for a bond ending at atom
// b: 1.33 across the peptide junction, otherwise the intra-residue
// ideal for the bond type
func idealBondLength(a, b *chain.Atom) float64 {
	if a.ResIndex != b.ResIndex {
		return peptideBondLength
	}
	if b.Name == "CA" {
		return nCaBondLength
	}
	return caCBondLength
}

// bondEnergy is a harmonic penalty on every consecutive backbone
// bond relative to its ideal length
func bondEnergy(s *chain.Structure) float64 {
	total := 0.0
	prev := (*chain.Atom)(nil)
	for _, a := range s.Atoms() {
		if !a.Backbone || a.Name == "O" {
			continue
		}
		if prev != nil {
			d := geom.Distance(prev.Pos, a.Pos) - idealBondLength(prev, a)
			total += bondK * d * d
		}
		prev = a
	}
	return total
}

// angleEnergy is a harmonic penalty on every consecutive backbone
// triple relative to the ideal main-chain angle
func angleEnergy(s *chain.Structure) float64 {
	var bb []*chain.Atom
	for _, a := range s.Atoms() {
		if a.Backbone && a.Name != "O" {
			bb = append(bb, a)
		}
	}

	total := 0.0
	for i := 0; i+2 < len(bb); i++ {
		theta := geom.Angle(bb[i].Pos, bb[i+1].Pos, bb[i+2].Pos)
		d := theta - idealAngle
		total += angleK * d * d
	}
	return total
}

// dihedralEnergy is not modeled and contributes exactly 0. Callers
// must not assume a torsion contribution to the total
func dihedralEnergy(s *chain.Structure) float64 {
	return 0
}

// hydrogenBond scores backbone N-H...O=C geometry: a donor nitrogen
// and an acceptor oxygen at least two residues apart, within the
// distance window and with a wide-enough N-O-C angle. Zero when no
// qualifying donor-acceptor pair exists; that is a valid outcome,
// not an error
func hydrogenBond(s *chain.Structure) float64 {
	type bbPair struct{ n, c, o *chain.Atom }
	perRes := make([]bbPair, len(s.Residues))
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			a := &s.Residues[i].Atoms[j]
			switch a.Name {
			case "N":
				perRes[i].n = a
			case "C":
				perRes[i].c = a
			case "O":
				perRes[i].o = a
			}
		}
	}

	total := 0.0
	for i := range perRes {
		donor := perRes[i].n
		if donor == nil {
			continue
		}
		for j := range perRes {
			if abs(i-j) < 2 {
				continue
			}
			acc := perRes[j].o
			carbonyl := perRes[j].c
			if acc == nil || carbonyl == nil {
				continue
			}

			dist := geom.Distance(donor.Pos, acc.Pos)
			if dist < hbondMinDist || dist > hbondMaxDist {
				continue
			}
			if geom.Angle(donor.Pos, acc.Pos, carbonyl.Pos) < hbondMinAngle {
				continue
			}
			total += hbondEnergy
		}
	}
	return total
}

// solvation is an implicit burial term on alpha carbons: hydrophobic
// residues are penalized for exposure (few neighbors within the
// burial radius) and hydrophilic residues for burial
func solvation(s *chain.Structure) float64 {
	var cas []*chain.Atom
	names := make([]string, 0, len(s.Residues))
	for i := range s.Residues {
		for j := range s.Residues[i].Atoms {
			if s.Residues[i].Atoms[j].Name == "CA" {
				cas = append(cas, &s.Residues[i].Atoms[j])
				names = append(names, s.Residues[i].Name)
			}
		}
	}

	total := 0.0
	for i, ca := range cas {
		neighbors := 0
		for j, other := range cas {
			if i == j {
				continue
			}
			if geom.Distance(ca.Pos, other.Pos) < burialRadius {
				neighbors++
			}
		}

		exposure := float64(burialThreshold - neighbors)
		if hydrophobic[names[i]] {
			total += solvationK * exposure // exposed hydrophobic costs
		} else {
			total -= solvationK * exposure // exposed hydrophilic pays off
		}
	}
	return total
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
