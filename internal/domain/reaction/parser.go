// Package reaction provides reaction-string parsing and cofactor
// classification, the front half of the feasibility pipeline.  A reaction
// string is parsed into reactant and product SMILES lists, and each species
// is classified as cofactor or substrate against the configured cofactor
// table before encoding.
package reaction

import (
	"strings"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

// Parsed is the structural form of a reaction string: the reactant and
// product species in their original textual order, stripped of surrounding
// whitespace.
type Parsed struct {
	Reactants []string
	Products  []string
}

// Parse converts a reaction string into its reactant and product SMILES
// lists.  Two grammars are accepted:
//
//	named form:    "A + B = C + D"   sides split on " = ", species on " + "
//	SMILES form:   "A.B>>C.D"        sides split on ">>", species on "."
//
// The SMILES form is detected first by the presence of ">>".  In the named
// form both separators are space-delimited, so bond symbols inside species
// like "C(=O)" never split a side and charged SMILES such as "[NH4+]" or
// trailing-plus names like "NAD+" never split a species.
//
// Both sides must contain at least one non-empty species; anything else is an
// ErrCodeMalformedReaction error.
func Parse(rxn string) (*Parsed, error) {
	s := strings.TrimSpace(rxn)
	if s == "" {
		return nil, errors.MalformedReaction("empty reaction string")
	}

	var leftRaw, rightRaw string
	var speciesSep string

	if strings.Contains(s, ">>") {
		parts := strings.Split(s, ">>")
		if len(parts) != 2 {
			return nil, errors.MalformedReaction("reaction must contain exactly one '>>'").WithDetail(rxn)
		}
		leftRaw, rightRaw = parts[0], parts[1]
		speciesSep = "."
	} else {
		parts := strings.Split(s, " = ")
		if len(parts) != 2 {
			return nil, errors.MalformedReaction("reaction must contain exactly one ' = ' separator").WithDetail(rxn)
		}
		leftRaw, rightRaw = parts[0], parts[1]
		speciesSep = " + "
	}

	reactants, err := splitSpecies(leftRaw, speciesSep, rxn)
	if err != nil {
		return nil, err
	}
	products, err := splitSpecies(rightRaw, speciesSep, rxn)
	if err != nil {
		return nil, err
	}

	return &Parsed{Reactants: reactants, Products: products}, nil
}

// splitSpecies splits one reaction side into trimmed species strings.
func splitSpecies(side, sep, rxn string) ([]string, error) {
	var out []string
	for _, sp := range strings.Split(side, sep) {
		sp = strings.TrimSpace(sp)
		if sp == "" {
			return nil, errors.MalformedReaction("empty species on reaction side").WithDetail(rxn)
		}
		out = append(out, sp)
	}
	return out, nil
}
