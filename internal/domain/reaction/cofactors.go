package reaction

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/turtacn/RxnFeasibility/internal/domain/molecule"
	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

// CofactorSet is an immutable membership table of cofactor SMILES strings.
// Species whose SMILES appear in the table are positioned as cofactors by the
// reaction encoder; everything else is a substrate.  Lookups are exact string
// matches, so the table and the incoming reactions must use the same SMILES
// normalisation.
//
// A CofactorSet is safe for concurrent use after construction.
type CofactorSet struct {
	smiles map[string]struct{}
}

// smilesColumn is the required header name of the SMILES column, matched
// case-insensitively.
const smilesColumn = "smiles"

// LoadCofactors reads a cofactor table from the CSV file at path.  The file
// must carry a header row containing a SMILES column (any capitalisation);
// additional columns such as names or KEGG identifiers are ignored.  Blank
// SMILES cells are skipped, duplicates collapse.
//
// All failure modes — unreadable file, empty file, missing SMILES column,
// malformed CSV — surface as ErrCodeCofactorFileInvalid.
func LoadCofactors(path string) (*CofactorSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCofactorFileInvalid,
			"failed to open cofactor file").WithDetail(path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows tolerated; only the SMILES cell matters

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCofactorFileInvalid,
			"failed to parse cofactor file").WithDetail(path)
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeCofactorFileInvalid,
			"cofactor file is empty").WithDetail(path)
	}

	col := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), smilesColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.New(errors.ErrCodeCofactorFileInvalid,
			fmt.Sprintf("cofactor file has no SMILES column, header: %v", records[0])).WithDetail(path)
	}

	set := make(map[string]struct{}, len(records)-1)
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		s := strings.TrimSpace(row[col])
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}

	return &CofactorSet{smiles: set}, nil
}

// NewCofactorSet builds a CofactorSet directly from SMILES strings.  Intended
// for tests and embedded defaults.
func NewCofactorSet(smiles ...string) *CofactorSet {
	set := make(map[string]struct{}, len(smiles))
	for _, s := range smiles {
		s = strings.TrimSpace(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return &CofactorSet{smiles: set}
}

// IsCofactor reports whether the SMILES string is in the table.
func (c *CofactorSet) IsCofactor(smiles string) bool {
	_, ok := c.smiles[strings.TrimSpace(smiles)]
	return ok
}

// Len returns the number of distinct cofactor SMILES loaded.
func (c *CofactorSet) Len() int { return len(c.smiles) }

// SMILES returns the cofactor SMILES strings in lexicographic order.
func (c *CofactorSet) SMILES() []string {
	out := make([]string, 0, len(c.smiles))
	for s := range c.smiles {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Nearest returns the table entry most similar to the query SMILES under the
// Tanimoto index of fper's fingerprints, together with its similarity.  An
// exact member returns itself with similarity 1.  Ties resolve to the
// lexicographically smallest SMILES so the answer is deterministic.
func (c *CofactorSet) Nearest(fper *molecule.Fingerprinter, query string) (string, float64, error) {
	if len(c.smiles) == 0 {
		return "", 0, errors.New(errors.ErrCodeValidation, "cofactor table is empty")
	}

	qfp, err := fper.Fingerprint(strings.TrimSpace(query))
	if err != nil {
		return "", 0, err
	}

	best, bestScore := "", -1.0
	for _, s := range c.SMILES() {
		fp, err := fper.Fingerprint(s)
		if err != nil {
			return "", 0, errors.Wrap(err, errors.ErrCodeCofactorFileInvalid,
				"cofactor table entry is not valid SMILES").WithDetail(s)
		}
		score, err := molecule.Tanimoto(qfp, fp)
		if err != nil {
			return "", 0, err
		}
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, bestScore, nil
}
