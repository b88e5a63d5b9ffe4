package feasibility

import (
	"fmt"
	"os"

	"github.com/dmitryikh/leaves"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

// Scorer turns one reaction feature vector into a feasibility probability.
// Implementations must be safe for concurrent use.
type Scorer interface {
	// Score returns the probability in [0, 1] that the encoded reaction is
	// feasible.
	Score(features []float64) (float64, error)

	// NumFeatures returns the highest feature index the model reads plus one,
	// or 0 when unknown.
	NumFeatures() int
}

// xgbScorer scores with a gradient-boosted tree ensemble loaded from an
// XGBoost model file.
type xgbScorer struct {
	ensemble *leaves.Ensemble
}

// NewXGBoostScorer loads the XGBoost model at path.  The ensemble's output
// transformation (logistic for the feasibility models) is loaded with it, so
// Score yields calibrated probabilities directly.
func NewXGBoostScorer(path string) (Scorer, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ModelArtifactNotFound("model file does not exist").WithDetail(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeModelArtifactNotFound,
			"model file is not accessible").WithDetail(path)
	}

	ensemble, err := leaves.XGEnsembleFromFile(path, true)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelArtifactCorrupt,
			"failed to load XGBoost model").WithDetail(path)
	}
	return &xgbScorer{ensemble: ensemble}, nil
}

func (s *xgbScorer) NumFeatures() int {
	return s.ensemble.NFeatures()
}

func (s *xgbScorer) Score(features []float64) (float64, error) {
	if n := s.ensemble.NFeatures(); len(features) < n {
		return 0, errors.New(errors.ErrCodeScoringFailed,
			fmt.Sprintf("feature vector has %d elements, model reads %d", len(features), n))
	}
	p := s.ensemble.PredictSingle(features, 0)
	// Models exported without a logistic transformation emit raw margins.
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return p, nil
}
