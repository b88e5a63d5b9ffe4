package molecule

// atomicMasses maps element symbols to standard atomic weights (g/mol).
// Only elements the tokenizer can produce are listed.
var atomicMasses = map[string]float64{
	"H":  1.008,
	"B":  10.811,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"Na": 22.990,
	"Mg": 24.305,
	"Al": 26.982,
	"Si": 28.086,
	"P":  30.974,
	"S":  32.065,
	"Cl": 35.453,
	"K":  39.098,
	"Ca": 40.078,
	"Mn": 54.938,
	"Fe": 55.845,
	"Co": 58.933,
	"Ni": 58.693,
	"Cu": 63.546,
	"Zn": 65.380,
	"As": 74.922,
	"Se": 78.960,
	"Br": 79.904,
	"Mo": 95.950,
	"Sn": 118.710,
	"I":  126.904,
	"Li": 6.941,
}

// unknownAtomMass is used for element symbols without a table entry, keeping
// the weight estimate total rather than failing the whole prediction.
const unknownAtomMass = 12.011

// MolecularWeight computes a deterministic heavy-atom molecular weight
// estimate for a SMILES string.  Implicit hydrogens are ignored, so the value
// underestimates the true molar mass; the classifier only uses it as a sort
// key, where any strictly monotone proxy is equivalent.
func MolecularWeight(smiles string) (float64, error) {
	atoms, err := TokenizeSMILES(smiles)
	if err != nil {
		return 0, err
	}
	var mw float64
	for _, a := range atoms {
		if m, ok := atomicMasses[a.Symbol]; ok {
			mw += m
		} else {
			mw += unknownAtomMass
		}
	}
	return mw, nil
}
