package feasibility

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

func mainLocator(dir string) ArtifactLocator {
	return ArtifactLocator{
		ModelsDir:       dir,
		ModelType:       rtypes.ModelMain,
		FingerprintType: rtypes.FPECFP4,
		NumBits:         2048,
		MaxSpecies:      4,
		Positioning:     rtypes.ByDescendingMW,
	}
}

func TestMainModelPath(t *testing.T) {
	l := mainLocator("models")
	assert.Equal(t,
		filepath.Join("models", "main", "all_BKM_rxns_ecfp4_XGBoost_4_by_descending_MW.model"),
		l.ModelPath())
	assert.Equal(t,
		filepath.Join("models", "main", "all_BKM_rxns_ecfp4_XGBoost_4_by_descending_MW_feasibility_threshold.txt"),
		l.ThresholdPath())
}

func TestSpareModelPath(t *testing.T) {
	l := mainLocator("models")
	l.ModelType = rtypes.ModelSpare
	l.Positioning = rtypes.AddConcat

	assert.Equal(t,
		filepath.Join("models", "spare", "xgboost_ecfp4_2048_4_add_concat.model"),
		l.ModelPath())
	assert.Equal(t,
		filepath.Join("models", "spare", "xgboost_ecfp4_2048_4_add_concat_feasibility_threshold.txt"),
		l.ThresholdPath())
}

func TestLoadSpareThreshold(t *testing.T) {
	dir := t.TempDir()
	l := mainLocator(dir)
	l.ModelType = rtypes.ModelSpare
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "spare"), 0o755))
	require.NoError(t, os.WriteFile(l.ThresholdPath(), []byte("0.9\n"), 0o644))

	v, err := l.LoadThreshold()
	require.NoError(t, err)
	assert.Equal(t, 0.9, v)
}

func TestLoadSpareThresholdMissingFile(t *testing.T) {
	l := mainLocator(t.TempDir())
	l.ModelType = rtypes.ModelSpare

	_, err := l.LoadThreshold()
	require.Error(t, err)
	assert.True(t, errors.IsModelArtifactNotFound(err))
}

func TestLoadThreshold(t *testing.T) {
	dir := t.TempDir()
	l := mainLocator(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "main"), 0o755))
	require.NoError(t, os.WriteFile(l.ThresholdPath(), []byte("0.62\n"), 0o644))

	v, err := l.LoadThreshold()
	require.NoError(t, err)
	assert.Equal(t, 0.62, v)
}

func TestLoadThresholdMissingFile(t *testing.T) {
	l := mainLocator(t.TempDir())
	_, err := l.LoadThreshold()
	require.Error(t, err)
	assert.True(t, errors.IsModelArtifactNotFound(err))
}

func TestLoadThresholdCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a number", "feasible\n"},
		{"negative", "-0.1"},
		{"above one", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			l := mainLocator(dir)
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "main"), 0o755))
			require.NoError(t, os.WriteFile(l.ThresholdPath(), []byte(tt.content), 0o644))

			_, err := l.LoadThreshold()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeModelArtifactCorrupt))
		})
	}
}

func TestModelPathDependsOnEveryParameter(t *testing.T) {
	base := mainLocator("models")
	variants := []ArtifactLocator{
		func() ArtifactLocator { l := base; l.FingerprintType = rtypes.FPECFP6; return l }(),
		func() ArtifactLocator { l := base; l.MaxSpecies = 2; return l }(),
		func() ArtifactLocator { l := base; l.Positioning = rtypes.AddSubtract; return l }(),
		func() ArtifactLocator { l := base; l.ModelType = rtypes.ModelSpare; return l }(),
	}
	seen := map[string]bool{base.ModelPath(): true}
	for _, v := range variants {
		p := v.ModelPath()
		assert.False(t, seen[p], "path %q not unique", p)
		seen[p] = true
	}
}
