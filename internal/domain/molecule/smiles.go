// Package molecule provides the species-level chemistry primitives of the
// feasibility classifier: SMILES tokenisation, a deterministic molecular
// weight estimate, and fixed-length fingerprint computation.
package molecule

import (
	"strings"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

// Atom is a single heavy-atom token extracted from a SMILES string.
type Atom struct {
	// Symbol is the element symbol with canonical capitalisation ("C", "Cl",
	// "N").  Aromatic lowercase atoms are upper-cased here; aromaticity is
	// tracked separately.
	Symbol string

	// Aromatic reports whether the atom was written in aromatic (lowercase)
	// form.
	Aromatic bool
}

// twoLetterElements lists the organic-subset and common inorganic two-letter
// element symbols recognised outside brackets.
var twoLetterElements = map[string]bool{
	"Cl": true,
	"Br": true,
	"Si": true,
	"Se": true,
	"Na": true,
	"Li": true,
	"Mg": true,
	"Ca": true,
	"Fe": true,
	"Zn": true,
	"Cu": true,
	"Mn": true,
	"Co": true,
	"Ni": true,
	"Al": true,
	"As": true,
	"Mo": true,
	"Sn": true,
}

// aromaticAtoms lists lowercase symbols that denote aromatic atoms in SMILES.
var aromaticAtoms = map[byte]string{
	'b': "B",
	'c': "C",
	'n': "N",
	'o': "O",
	'p': "P",
	's': "S",
}

// isUpper reports whether b is an ASCII uppercase letter.
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// isLower reports whether b is an ASCII lowercase letter.
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

// isDigit reports whether b is an ASCII digit.
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseBracketAtom extracts the element symbol from the inside of a bracket
// atom expression such as "NH4+", "13CH3" or "Fe+2".  Isotope digits, charge,
// hydrogen counts and chirality markers are skipped.
func parseBracketAtom(body string) (Atom, bool) {
	i := 0
	for i < len(body) && isDigit(body[i]) { // isotope prefix
		i++
	}
	if i >= len(body) {
		return Atom{}, false
	}
	// Aromatic bracket atom, e.g. [nH].
	if sym, ok := aromaticAtoms[body[i]]; ok {
		return Atom{Symbol: sym, Aromatic: true}, true
	}
	if !isUpper(body[i]) {
		// "*" wildcard or malformed.
		if body[i] == '*' {
			return Atom{Symbol: "*"}, true
		}
		return Atom{}, false
	}
	sym := string(body[i])
	if i+1 < len(body) && isLower(body[i+1]) {
		two := sym + string(body[i+1])
		// "H" suffixes like [CH3] are hydrogen counts, not part of a
		// two-letter symbol; anything else lowercase extends the symbol.
		if body[i+1] != 'h' {
			sym = two
		}
	}
	return Atom{Symbol: sym}, true
}

// TokenizeSMILES splits a SMILES string into its heavy-atom tokens.  Bonds,
// branches, ring-closure digits and stereo markers are validated for balance
// and then discarded; explicit hydrogens are dropped.
//
// The tokenizer accepts the organic subset plus bracket atoms.  It returns an
// ErrCodeInvalidSMILES error for empty input, unbalanced brackets or
// parentheses, or characters outside the SMILES alphabet.
func TokenizeSMILES(smiles string) ([]Atom, error) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidSMILES, "empty SMILES string")
	}

	var (
		atoms        []Atom
		parenDepth   int
		bracketDepth int
	)

	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == '[':
			if bracketDepth > 0 {
				return nil, errors.New(errors.ErrCodeInvalidSMILES, "nested '[' in SMILES").WithDetail(smiles)
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, errors.New(errors.ErrCodeInvalidSMILES, "unterminated '[' in SMILES").WithDetail(smiles)
			}
			body := s[i+1 : i+end]
			atom, ok := parseBracketAtom(body)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidSMILES, "malformed bracket atom").WithDetail(smiles)
			}
			if atom.Symbol != "H" && atom.Symbol != "*" {
				atoms = append(atoms, atom)
			}
			i += end + 1

		case ch == ']':
			return nil, errors.New(errors.ErrCodeInvalidSMILES, "unmatched ']' in SMILES").WithDetail(smiles)

		case ch == '(':
			parenDepth++
			i++

		case ch == ')':
			parenDepth--
			if parenDepth < 0 {
				return nil, errors.New(errors.ErrCodeInvalidSMILES, "unmatched ')' in SMILES").WithDetail(smiles)
			}
			i++

		case isUpper(ch):
			sym := string(ch)
			if i+1 < len(s) && isLower(s[i+1]) && twoLetterElements[sym+string(s[i+1])] {
				sym += string(s[i+1])
				i++
			}
			if sym != "H" {
				atoms = append(atoms, Atom{Symbol: sym})
			}
			i++

		case isLower(ch):
			sym, ok := aromaticAtoms[ch]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidSMILES, "unknown aromatic atom").WithDetail(smiles)
			}
			atoms = append(atoms, Atom{Symbol: sym, Aromatic: true})
			i++

		case isDigit(ch), ch == '%':
			// Ring-closure labels.
			i++

		case ch == '-', ch == '=', ch == '#', ch == ':', ch == '/', ch == '\\', ch == '.', ch == '+', ch == '@', ch == '~':
			i++

		default:
			return nil, errors.New(errors.ErrCodeInvalidSMILES, "unexpected character in SMILES").WithDetail(smiles)
		}
	}

	if parenDepth != 0 {
		return nil, errors.New(errors.ErrCodeInvalidSMILES, "unbalanced parentheses in SMILES").WithDetail(smiles)
	}
	if len(atoms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSMILES, "no atoms found in SMILES").WithDetail(smiles)
	}
	return atoms, nil
}
