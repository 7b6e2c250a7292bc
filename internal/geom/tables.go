package geom

// van der Waals radii for the elements that occur in a polypeptide,
// values from Bondi (10.1021/j100785a001). Initialized once at load
// and read concurrently without locks; never mutated after start
var vdwRadii = map[string]float64{
	"H": 1.20,
	"C": 1.70,
	"N": 1.55,
	"O": 1.52,
	"S": 1.80,
}

// fallback radius for an element missing from the table
const defaultVdwRadius = 1.70

// partial charges for backbone atoms, CHARMM-style values keyed by
// atom name rather than element because the carbonyl carbon and the
// alpha carbon carry very different charges
var partialCharges = map[string]float64{
	"N":  -0.47,
	"H":  0.31,
	"CA": 0.07,
	"HA": 0.09,
	"C":  0.51,
	"O":  -0.51,
	"CB": -0.18,
	"SG": -0.23,
}

// VdwRadius returns the van der Waals radius for an element symbol
func VdwRadius(element string) float64 {
	if r, ok := vdwRadii[element]; ok {
		return r
	}
	return defaultVdwRadius
}

// PartialCharge returns the partial charge for an atom name,
// or 0 for atoms without a tabulated charge
func PartialCharge(name string) float64 {
	return partialCharges[name]
}
