// Package encoding assembles per-species molecular fingerprints into the
// single fixed-length reaction feature vector consumed by the feasibility
// model.  The assembly is governed by a cofactor-positioning policy that must
// match the one the scoring model was trained under.
package encoding

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/turtacn/RxnFeasibility/internal/domain/molecule"
	"github.com/turtacn/RxnFeasibility/internal/domain/reaction"
	"github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// species is one reaction participant with everything the positioning
// policies need: its fingerprint, its weight sort key, and its
// cofactor/substrate classification.
type species struct {
	smiles   string
	fp       []float64
	mw       float64
	cofactor bool
}

// side groups the classified species of one reaction side, parse order
// preserved within each group.
type side struct {
	substrates []species
	cofactors  []species
}

// count returns the total number of species on the side.
func (s *side) count() int { return len(s.substrates) + len(s.cofactors) }

// ─────────────────────────────────────────────────────────────────────────────
// Encoder
// ─────────────────────────────────────────────────────────────────────────────

// Encoder converts parsed reactions into model feature vectors.  It is
// immutable and safe for concurrent use.
type Encoder struct {
	fper        *molecule.Fingerprinter
	cofactors   *reaction.CofactorSet
	positioning rtypes.CofactorPositioning
	maxSpecies  int
}

// NewEncoder builds an Encoder.  maxSpecies caps the per-side species count
// for the positional policies and sizes their slot layout; the additive
// policies ignore it.
func NewEncoder(
	fper *molecule.Fingerprinter,
	cofactors *reaction.CofactorSet,
	positioning rtypes.CofactorPositioning,
	maxSpecies int,
) (*Encoder, error) {
	if fper == nil {
		return nil, errors.InvalidConfiguration("encoder requires a fingerprinter")
	}
	if cofactors == nil {
		return nil, errors.InvalidConfiguration("encoder requires a cofactor set")
	}
	if !positioning.IsValid() {
		return nil, errors.InvalidConfiguration(
			fmt.Sprintf("unknown cofactor positioning %q", positioning))
	}
	if maxSpecies < 1 {
		return nil, errors.InvalidConfiguration(
			fmt.Sprintf("max species must be ≥ 1, got %d", maxSpecies))
	}
	return &Encoder{
		fper:        fper,
		cofactors:   cofactors,
		positioning: positioning,
		maxSpecies:  maxSpecies,
	}, nil
}

// Positioning returns the configured policy.
func (e *Encoder) Positioning() rtypes.CofactorPositioning { return e.positioning }

// Size returns the length of every feature vector this Encoder produces.
// The length is a pure function of the configuration, never of the input
// reaction:
//
//	positional policies:  2 × maxSpecies × fingerprint size
//	add_concat:           4 × fingerprint size
//	add_subtract:         2 × fingerprint size
func (e *Encoder) Size() int {
	fpSize := e.fper.Size()
	switch e.positioning {
	case rtypes.AddConcat:
		return 4 * fpSize
	case rtypes.AddSubtract:
		return 2 * fpSize
	default:
		return 2 * e.maxSpecies * fpSize
	}
}

// Encode converts a parsed reaction into its feature vector.  The returned
// slice always has length Size().
func (e *Encoder) Encode(p *reaction.Parsed) ([]float64, error) {
	left, err := e.classify(p.Reactants)
	if err != nil {
		return nil, err
	}
	right, err := e.classify(p.Products)
	if err != nil {
		return nil, err
	}

	switch e.positioning {
	case rtypes.ByAscendingMW:
		return e.positional(left, right, true)
	case rtypes.ByDescendingMW:
		return e.positional(left, right, false)
	case rtypes.AddConcat:
		return e.addConcat(left, right), nil
	case rtypes.AddSubtract:
		return e.addSubtract(left, right), nil
	default:
		return nil, errors.InvalidConfiguration(
			fmt.Sprintf("unknown cofactor positioning %q", e.positioning))
	}
}

// classify fingerprints every species of one side and splits the side into
// substrates and cofactors, preserving parse order within each group.
func (e *Encoder) classify(smilesList []string) (*side, error) {
	s := &side{}
	for _, sm := range smilesList {
		fp, err := e.fper.FingerprintFloats(sm)
		if err != nil {
			return nil, err
		}
		mw, err := molecule.MolecularWeight(sm)
		if err != nil {
			return nil, err
		}
		sp := species{smiles: sm, fp: fp, mw: mw, cofactor: e.cofactors.IsCofactor(sm)}
		if sp.cofactor {
			s.cofactors = append(s.cofactors, sp)
		} else {
			s.substrates = append(s.substrates, sp)
		}
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Positional policies
// ─────────────────────────────────────────────────────────────────────────────

// positional lays out one fingerprint slot per species: substrates first,
// then cofactors, each group sorted by molecular weight.  Unused slots stay
// zero, so sparse reactions always produce the full-width vector.
func (e *Encoder) positional(left, right *side, ascending bool) ([]float64, error) {
	if n := left.count(); n > e.maxSpecies {
		return nil, errors.TooManySpecies(
			fmt.Sprintf("%d reactants exceed the %d-species capacity", n, e.maxSpecies))
	}
	if n := right.count(); n > e.maxSpecies {
		return nil, errors.TooManySpecies(
			fmt.Sprintf("%d products exceed the %d-species capacity", n, e.maxSpecies))
	}

	fpSize := e.fper.Size()
	out := make([]float64, 2*e.maxSpecies*fpSize)
	e.fillSlots(out[:e.maxSpecies*fpSize], left, ascending)
	e.fillSlots(out[e.maxSpecies*fpSize:], right, ascending)
	return out, nil
}

// fillSlots copies one side's ordered fingerprints into its slot block.
func (e *Encoder) fillSlots(block []float64, s *side, ascending bool) {
	fpSize := e.fper.Size()
	slot := 0
	for _, group := range [][]species{s.substrates, s.cofactors} {
		ordered := sortByWeight(group, ascending)
		for _, sp := range ordered {
			copy(block[slot*fpSize:(slot+1)*fpSize], sp.fp)
			slot++
		}
	}
}

// sortByWeight returns the group sorted by molecular weight.  The sort is
// stable so equal-weight species keep their parse order.
func sortByWeight(group []species, ascending bool) []species {
	out := make([]species, len(group))
	copy(out, group)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].mw < out[j].mw
		}
		return out[i].mw > out[j].mw
	})
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Additive policies
// ─────────────────────────────────────────────────────────────────────────────

// sumGroup folds a species group into one element-wise sum vector.
func (e *Encoder) sumGroup(group []species) []float64 {
	sum := make([]float64, e.fper.Size())
	for _, sp := range group {
		floats.Add(sum, sp.fp)
	}
	return sum
}

// addConcat concatenates four block sums: reactant substrates, product
// substrates, reactant cofactors, product cofactors.
func (e *Encoder) addConcat(left, right *side) []float64 {
	fpSize := e.fper.Size()
	out := make([]float64, 0, 4*fpSize)
	out = append(out, e.sumGroup(left.substrates)...)
	out = append(out, e.sumGroup(right.substrates)...)
	out = append(out, e.sumGroup(left.cofactors)...)
	out = append(out, e.sumGroup(right.cofactors)...)
	return out
}

// addSubtract folds each group pair into a reactant-minus-product difference
// vector: the substrate difference block followed by the cofactor difference
// block.
func (e *Encoder) addSubtract(left, right *side) []float64 {
	fpSize := e.fper.Size()
	out := make([]float64, 0, 2*fpSize)

	subDiff := e.sumGroup(left.substrates)
	floats.Sub(subDiff, e.sumGroup(right.substrates))
	out = append(out, subDiff...)

	cofDiff := e.sumGroup(left.cofactors)
	floats.Sub(cofDiff, e.sumGroup(right.cofactors))
	out = append(out, cofDiff...)

	return out
}
