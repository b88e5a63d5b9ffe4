// Package reaction defines the reaction-domain enumerations and data transfer
// objects shared by every layer of RxnFeasibility.  No domain logic lives here —
// only plain data types that are safe to import from any layer without creating
// circular dependencies.
package reaction

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// CofactorPositioning — reaction-fingerprint assembly policy
// ─────────────────────────────────────────────────────────────────────────────

// CofactorPositioning selects how per-species molecular fingerprints are
// ordered and combined into the single fixed-length reaction fingerprint fed
// to the feasibility model.  The value is part of the model-artifact identity:
// a model trained under one positioning cannot score vectors produced under
// another.
type CofactorPositioning string

const (
	// ByAscendingMW places substrates before cofactors on each side, both
	// sub-groups ordered by ascending molecular weight, one fingerprint slot
	// per species up to the configured species cap.
	ByAscendingMW CofactorPositioning = "by_ascending_MW"

	// ByDescendingMW is ByAscendingMW with both sub-orderings reversed.
	ByDescendingMW CofactorPositioning = "by_descending_MW"

	// AddConcat sums substrate and cofactor fingerprints element-wise per side
	// and concatenates the four resulting blocks.  Tolerates any number of
	// species per side.
	AddConcat CofactorPositioning = "add_concat"

	// AddSubtract folds each group into a reactant-minus-product difference
	// vector, modelling net structural change.  Tolerates any number of
	// species per side.
	AddSubtract CofactorPositioning = "add_subtract"
)

// AllCofactorPositionings lists every supported policy, in documentation order.
var AllCofactorPositionings = []CofactorPositioning{
	ByAscendingMW, ByDescendingMW, AddConcat, AddSubtract,
}

func (p CofactorPositioning) String() string { return string(p) }

// IsValid reports whether p is one of the four supported policies.
func (p CofactorPositioning) IsValid() bool {
	switch p {
	case ByAscendingMW, ByDescendingMW, AddConcat, AddSubtract:
		return true
	}
	return false
}

// Positional reports whether p assigns one fingerprint slot per species and
// therefore enforces the per-side species cap.  The additive policies reduce
// by summation and accept unbounded species counts.
func (p CofactorPositioning) Positional() bool {
	return p == ByAscendingMW || p == ByDescendingMW
}

// ParseCofactorPositioning converts a raw string into a CofactorPositioning.
func ParseCofactorPositioning(s string) (CofactorPositioning, error) {
	p := CofactorPositioning(s)
	if !p.IsValid() {
		return "", fmt.Errorf("reaction: unknown cofactor positioning %q", s)
	}
	return p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FingerprintType — molecular fingerprint algorithm identifier
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintType identifies the algorithm used to convert one molecular
// structure into its fixed-length fingerprint vector.
type FingerprintType string

const (
	// FPECFP4 is the circular Morgan fingerprint with radius 2 (ECFP4).
	// All consolidated feasibility models were trained with this type.
	FPECFP4 FingerprintType = "ecfp4"

	// FPECFP6 is the circular Morgan fingerprint with radius 3 (ECFP6).
	FPECFP6 FingerprintType = "ecfp6"

	// FPMACCS is the 166-bit MACCS structural-keys fingerprint.
	FPMACCS FingerprintType = "maccs"

	// FPAtomPair is the hashed atom-pair fingerprint.
	FPAtomPair FingerprintType = "atom_pair"
)

func (t FingerprintType) String() string { return string(t) }

// IsValid reports whether t names a fingerprinting method this module supports.
func (t FingerprintType) IsValid() bool {
	switch t {
	case FPECFP4, FPECFP6, FPMACCS, FPAtomPair:
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// ModelType — model artifact family selector
// ─────────────────────────────────────────────────────────────────────────────

// ModelType selects which artifact family the feasibility classifier loads.
type ModelType string

const (
	// ModelMain selects the consolidated models trained on the cleanest data.
	ModelMain ModelType = "main"

	// ModelSpare selects the earlier model iterations trained on noisier data.
	ModelSpare ModelType = "spare"
)

func (t ModelType) String() string { return string(t) }

// IsValid reports whether t names a recognised artifact family.
func (t ModelType) IsValid() bool {
	return t == ModelMain || t == ModelSpare
}

// ─────────────────────────────────────────────────────────────────────────────
// Prediction DTOs
// ─────────────────────────────────────────────────────────────────────────────

// PredictionDTO is the canonical prediction result passed between the
// application, interface, and client layers.
type PredictionDTO struct {
	// Reaction is the input reaction string exactly as received.
	Reaction string `json:"reaction"`

	// Score is the model-estimated feasibility probability in [0, 1].
	Score float64 `json:"score"`

	// Label is 1 when Score >= Threshold, else 0.
	Label int `json:"label"`

	// Threshold is the decision threshold loaded with the model artifact.
	Threshold float64 `json:"threshold"`
}

// BatchItemDTO is one entry of a batch prediction response.  Exactly one of
// Prediction or Error is populated.
type BatchItemDTO struct {
	Reaction   string         `json:"reaction"`
	Prediction *PredictionDTO `json:"prediction,omitempty"`
	Error      string         `json:"error,omitempty"`
}
