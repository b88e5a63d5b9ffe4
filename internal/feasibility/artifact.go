// Package feasibility hosts the reaction feasibility classifier: model
// artifact resolution, XGBoost scoring, and the prediction orchestrator that
// ties parsing, encoding and scoring together.
package feasibility

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// ArtifactLocator resolves the on-disk paths of one trained model artifact
// from the classifier configuration.  Every configuration field participates
// in the file name, so a configuration change can never silently load a model
// trained under different parameters.
type ArtifactLocator struct {
	ModelsDir       string
	ModelType       rtypes.ModelType
	FingerprintType rtypes.FingerprintType
	NumBits         int
	MaxSpecies      int
	Positioning     rtypes.CofactorPositioning
}

// ModelPath returns the path of the serialized XGBoost model.
//
// Layout:
//
//	main:  <dir>/main/all_BKM_rxns_<fp>_XGBoost_<maxSpecies>_<positioning>.model
//	spare: <dir>/spare/xgboost_<fp>_<numBits>_<maxSpecies>_<positioning>.model
func (l ArtifactLocator) ModelPath() string {
	if l.ModelType == rtypes.ModelSpare {
		name := fmt.Sprintf("xgboost_%s_%d_%d_%s.model",
			l.FingerprintType, l.NumBits, l.MaxSpecies, l.Positioning)
		return filepath.Join(l.ModelsDir, "spare", name)
	}
	name := fmt.Sprintf("all_BKM_rxns_%s_XGBoost_%d_%s.model",
		l.FingerprintType, l.MaxSpecies, l.Positioning)
	return filepath.Join(l.ModelsDir, "main", name)
}

// ThresholdPath returns the path of the decision-threshold file that sits
// beside the model.
//
// Layout:
//
//	main:  <dir>/main/all_BKM_rxns_<fp>_XGBoost_<maxSpecies>_<positioning>_feasibility_threshold.txt
//	spare: <dir>/spare/xgboost_<fp>_<numBits>_<maxSpecies>_<positioning>_feasibility_threshold.txt
func (l ArtifactLocator) ThresholdPath() string {
	if l.ModelType == rtypes.ModelSpare {
		name := fmt.Sprintf("xgboost_%s_%d_%d_%s_feasibility_threshold.txt",
			l.FingerprintType, l.NumBits, l.MaxSpecies, l.Positioning)
		return filepath.Join(l.ModelsDir, "spare", name)
	}
	name := fmt.Sprintf("all_BKM_rxns_%s_XGBoost_%d_%s_feasibility_threshold.txt",
		l.FingerprintType, l.MaxSpecies, l.Positioning)
	return filepath.Join(l.ModelsDir, "main", name)
}

// LoadThreshold reads the decision threshold that accompanies the model.
// A missing threshold file is an ErrCodeModelArtifactNotFound error; an
// unparsable or out-of-range value is ErrCodeModelArtifactCorrupt.
func (l ArtifactLocator) LoadThreshold() (float64, error) {
	path := l.ThresholdPath()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.ModelArtifactNotFound("threshold file does not exist").WithDetail(path)
		}
		return 0, errors.Wrap(err, errors.ErrCodeModelArtifactCorrupt,
			"failed to read threshold file").WithDetail(path)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeModelArtifactCorrupt,
			"threshold file is not a number").WithDetail(path)
	}
	if v < 0 || v > 1 {
		return 0, errors.New(errors.ErrCodeModelArtifactCorrupt,
			fmt.Sprintf("threshold %v is outside [0, 1]", v)).WithDetail(path)
	}
	return v, nil
}
