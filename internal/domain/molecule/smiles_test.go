package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

func symbols(atoms []Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = a.Symbol
	}
	return out
}

func TestTokenizeSMILES(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		want   []string
	}{
		{"ethanol", "CCO", []string{"C", "C", "O"}},
		{"pyruvate-like ketone", "CC(=O)C(=O)O", []string{"C", "C", "O", "C", "O", "O"}},
		{"benzene aromatic", "c1ccccc1", []string{"C", "C", "C", "C", "C", "C"}},
		{"chlorine not carbon-iodine", "CCl", []string{"C", "Cl"}},
		{"bromobenzene", "Brc1ccccc1", []string{"Br", "C", "C", "C", "C", "C", "C"}},
		{"bracket charge", "[NH4+]", []string{"N"}},
		{"charged aromatic nitrogen", "c1cc[n+](C)c1", []string{"C", "C", "C", "N", "C", "C"}},
		{"explicit hydrogen dropped", "[H]OC([H])=O", []string{"O", "C", "O"}},
		{"ring closure percent", "C%10CC%10", []string{"C", "C", "C"}},
		{"isotope bracket", "[13C]C", []string{"C", "C"}},
		{"stereo markers", "C/C=C\\C", []string{"C", "C", "C", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atoms, err := TokenizeSMILES(tt.smiles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbols(atoms))
		})
	}
}

func TestTokenizeSMILESAromaticFlag(t *testing.T) {
	atoms, err := TokenizeSMILES("Cc1ccccc1")
	require.NoError(t, err)
	assert.False(t, atoms[0].Aromatic)
	for _, a := range atoms[1:] {
		assert.True(t, a.Aromatic)
	}
}

func TestTokenizeSMILESRejects(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unterminated bracket", "C[NH"},
		{"stray closing bracket", "CN]"},
		{"unbalanced open paren", "C(C"},
		{"unbalanced close paren", "CC)"},
		{"unknown lowercase atom", "Cq"},
		{"illegal character", "C{O}"},
		{"only hydrogens", "[H][H]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TokenizeSMILES(tt.smiles)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidSMILES))
		})
	}
}

func TestTokenizeSMILESNicotinamideFragment(t *testing.T) {
	// Fragment of the NAD+ SMILES used by the classifier's cofactor table.
	atoms, err := TokenizeSMILES("NC(=O)c1ccc[n+](C)c1")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"N", "C", "O", "C", "C", "C", "C", "N", "C", "C"},
		symbols(atoms))
}
