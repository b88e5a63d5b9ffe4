// Molecular fingerprint computation.  Fingerprints encode molecular structure
// as fixed-length bit vectors; the reaction encoder concatenates or sums them
// into the model feature vector.  The circular and atom-pair schemes use an
// atom-environment hashing approximation over the tokenised SMILES sequence,
// which keeps the computation dependency-free and fully deterministic.
package molecule

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// maccsBits is the fixed length of the MACCS structural-keys fingerprint.
const maccsBits = 166

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint — packed bit vector
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprint is a molecular fingerprint as a packed bit vector: bit i lives
// in byte i/8 at position i%8.
type Fingerprint struct {
	// Type identifies which fingerprint algorithm produced the vector.
	Type rtypes.FingerprintType `json:"type"`

	// Bits is the packed bit vector.
	Bits []byte `json:"bits"`

	// Length is the total number of bits.
	Length int `json:"length"`

	// NumOnBits is the count of set bits (popcount).
	NumOnBits int `json:"num_on_bits"`
}

// NewFingerprint constructs a Fingerprint from packed bit data.
func NewFingerprint(fpType rtypes.FingerprintType, data []byte, length int) *Fingerprint {
	onBits := 0
	for _, b := range data {
		onBits += bits.OnesCount8(b)
	}
	return &Fingerprint{
		Type:      fpType,
		Bits:      data,
		Length:    length,
		NumOnBits: onBits,
	}
}

// GetBit returns true if the bit at index is set.  Out-of-range indices
// report false.
func (fp *Fingerprint) GetBit(index int) bool {
	if index < 0 || index >= fp.Length {
		return false
	}
	return (fp.Bits[index/8] & (1 << uint(index%8))) != 0
}

// Floats expands the packed bits into a dense float64 vector of 0s and 1s,
// the representation the scoring model consumes.
func (fp *Fingerprint) Floats() []float64 {
	out := make([]float64, fp.Length)
	for i := 0; i < fp.Length; i++ {
		if fp.GetBit(i) {
			out[i] = 1
		}
	}
	return out
}

// setBit sets the bit at index in a packed byte slice.
func setBit(b []byte, index int) {
	b[index/8] |= 1 << uint(index%8)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprinter
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprinter converts SMILES strings into fixed-length fingerprint vectors
// of one configured type.  A Fingerprinter is immutable and safe for
// concurrent use.
type Fingerprinter struct {
	fpType  rtypes.FingerprintType
	numBits int
}

// NewFingerprinter validates the fingerprint type and returns a Fingerprinter.
// numBits sizes the hashed schemes (ecfp4, ecfp6, atom_pair); MACCS has a
// fixed 166-bit layout and ignores it.
func NewFingerprinter(fpType rtypes.FingerprintType, numBits int) (*Fingerprinter, error) {
	if !fpType.IsValid() {
		return nil, errors.UnsupportedFingerprintType(
			fmt.Sprintf("unknown fingerprint type %q", fpType))
	}
	if numBits < 1 {
		return nil, errors.InvalidParam(fmt.Sprintf("fingerprint width must be ≥ 1, got %d", numBits))
	}
	return &Fingerprinter{fpType: fpType, numBits: numBits}, nil
}

// Type returns the configured fingerprint type.
func (f *Fingerprinter) Type() rtypes.FingerprintType { return f.fpType }

// Size returns the length in bits of every fingerprint this Fingerprinter
// produces.
func (f *Fingerprinter) Size() int {
	if f.fpType == rtypes.FPMACCS {
		return maccsBits
	}
	return f.numBits
}

// Fingerprint computes the fingerprint of one species.
func (f *Fingerprinter) Fingerprint(smiles string) (*Fingerprint, error) {
	atoms, err := TokenizeSMILES(smiles)
	if err != nil {
		return nil, err
	}
	switch f.fpType {
	case rtypes.FPECFP4:
		return f.circular(atoms, 2), nil
	case rtypes.FPECFP6:
		return f.circular(atoms, 3), nil
	case rtypes.FPAtomPair:
		return f.atomPair(atoms), nil
	case rtypes.FPMACCS:
		return f.maccs(smiles, atoms), nil
	default:
		return nil, errors.UnsupportedFingerprintType(
			fmt.Sprintf("unknown fingerprint type %q", f.fpType))
	}
}

// FingerprintFloats is Fingerprint followed by Floats, for callers that only
// need the dense vector.
func (f *Fingerprinter) FingerprintFloats(smiles string) ([]float64, error) {
	fp, err := f.Fingerprint(smiles)
	if err != nil {
		return nil, err
	}
	return fp.Floats(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Circular (Morgan / ECFP) fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// circular computes a Morgan-style circular fingerprint.  For every atom and
// every radius r up to maxRadius, the atom's environment — the token window of
// width 2r+1 centred on it — is hashed to one bit position.
func (f *Fingerprinter) circular(atoms []Atom, maxRadius int) *Fingerprint {
	b := make([]byte, (f.numBits+7)/8)
	for i := range atoms {
		for r := 0; r <= maxRadius; r++ {
			env := environment(atoms, i, r)
			setBit(b, int(hash64(env)%uint64(f.numBits)))
		}
	}
	return NewFingerprint(f.fpType, b, f.numBits)
}

// environment renders the token window of radius r around atom i into a
// canonical string descriptor.
func environment(atoms []Atom, i, r int) string {
	lo := i - r
	if lo < 0 {
		lo = 0
	}
	hi := i + r
	if hi > len(atoms)-1 {
		hi = len(atoms) - 1
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "r%d|", r)
	for j := lo; j <= hi; j++ {
		sb.WriteString(atomCode(atoms[j]))
		sb.WriteByte('-')
	}
	return sb.String()
}

// atomCode renders one atom as its environment-descriptor token.
func atomCode(a Atom) string {
	if a.Aromatic {
		return strings.ToLower(a.Symbol)
	}
	return a.Symbol
}

// ─────────────────────────────────────────────────────────────────────────────
// Atom-pair fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// atomPair hashes every (atom, atom, separation) triple up to a separation of
// maxPairDistance tokens.
const maxPairDistance = 7

func (f *Fingerprinter) atomPair(atoms []Atom) *Fingerprint {
	b := make([]byte, (f.numBits+7)/8)
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms) && j-i <= maxPairDistance; j++ {
			pair := fmt.Sprintf("%s|%s|%d", atomCode(atoms[i]), atomCode(atoms[j]), j-i)
			setBit(b, int(hash64(pair)%uint64(f.numBits)))
		}
	}
	return NewFingerprint(rtypes.FPAtomPair, b, f.numBits)
}

// hash64 maps a descriptor string to a uint64 via SHA-256.
func hash64(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(h[:8])
}

// ─────────────────────────────────────────────────────────────────────────────
// MACCS structural keys
// ─────────────────────────────────────────────────────────────────────────────

// maccsPatterns is the subset of structural keys checked by substring match
// against the raw SMILES.
var maccsPatterns = []struct {
	bitIdx  int
	pattern string
}{
	{10, "c1ccccc1"}, // benzene
	{20, "N"},        // nitrogen
	{21, "O"},        // oxygen
	{22, "S"},        // sulfur
	{23, "F"},        // fluorine
	{24, "Cl"},       // chlorine
	{25, "Br"},       // bromine
	{26, "P"},        // phosphorus
	{30, "C(=O)O"},   // carboxylic acid
	{31, "C(=O)N"},   // amide
	{32, "C=O"},      // carbonyl
	{33, "C#N"},      // nitrile
	{34, "[NH2]"},    // primary amine
	{36, "C=C"},      // double bond
	{37, "C#C"},      // triple bond
	{40, "("},        // branching
	{41, "[n+]"},     // quaternary aromatic nitrogen
	{42, "OP(=O)"},   // phosphate ester
}

// maccs computes a simplified 166-key MACCS fingerprint: substring keys plus
// size and aromaticity buckets.
func (f *Fingerprinter) maccs(smiles string, atoms []Atom) *Fingerprint {
	b := make([]byte, (maccsBits+7)/8)
	for _, p := range maccsPatterns {
		if strings.Contains(smiles, p.pattern) {
			setBit(b, p.bitIdx)
		}
	}

	aromatic := 0
	for _, a := range atoms {
		if a.Aromatic {
			aromatic++
		}
	}
	if aromatic > 0 {
		setBit(b, 60)
	}
	if aromatic > 6 {
		setBit(b, 61)
	}
	if len(atoms) > 5 {
		setBit(b, 50)
	}
	if len(atoms) > 10 {
		setBit(b, 51)
	}
	if len(atoms) > 20 {
		setBit(b, 52)
	}
	if len(atoms) > 40 {
		setBit(b, 53)
	}

	return NewFingerprint(rtypes.FPMACCS, b, maccsBits)
}
