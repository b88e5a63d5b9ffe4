package molecule

import (
	"math/bits"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

// Tanimoto computes the Jaccard index between two fingerprints of the same
// type and length. Two all-zero fingerprints have similarity 0.
func Tanimoto(a, b *Fingerprint) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}

	intersection, union := 0, 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
		union += bits.OnesCount8(a.Bits[i] | b.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// Dice computes the Dice coefficient between two fingerprints of the same
// type and length.
func Dice(a, b *Fingerprint) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}

	intersection := 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
	}
	denominator := a.NumOnBits + b.NumOnBits
	if denominator == 0 {
		return 0, nil
	}
	return 2.0 * float64(intersection) / float64(denominator), nil
}

func checkComparable(a, b *Fingerprint) error {
	if a == nil || b == nil {
		return errors.New(errors.ErrCodeValidation, "fingerprints must not be nil")
	}
	if a.Type != b.Type || a.Length != b.Length {
		return errors.New(errors.ErrCodeValidation, "fingerprints must have the same type and length")
	}
	return nil
}
