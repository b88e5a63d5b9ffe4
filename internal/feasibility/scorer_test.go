package feasibility

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/pkg/errors"
)

func TestNewXGBoostScorerMissingFile(t *testing.T) {
	_, err := NewXGBoostScorer(filepath.Join(t.TempDir(), "absent.model"))
	require.Error(t, err)
	assert.True(t, errors.IsModelArtifactNotFound(err))
}

func TestNewXGBoostScorerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.model")
	require.NoError(t, os.WriteFile(path, []byte("not an xgboost model"), 0o644))

	_, err := NewXGBoostScorer(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModelArtifactCorrupt))
}
