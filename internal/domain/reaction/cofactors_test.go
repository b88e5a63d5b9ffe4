package reaction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/internal/domain/molecule"
	"github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

func writeCofactorFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cofactors.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCofactors(t *testing.T) {
	path := writeCofactorFile(t, `name,SMILES,kegg_id
water,O,C00001
proton,[H+],C00080
ammonia,N,C00014
`)
	set, err := LoadCofactors(path)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.IsCofactor("O"))
	assert.True(t, set.IsCofactor("[H+]"))
	assert.False(t, set.IsCofactor("CCO"))
}

func TestLoadCofactorsHeaderCaseInsensitive(t *testing.T) {
	path := writeCofactorFile(t, "smiles\nO\n")
	set, err := LoadCofactors(path)
	require.NoError(t, err)
	assert.True(t, set.IsCofactor("O"))
}

func TestLoadCofactorsSkipsBlanksAndDuplicates(t *testing.T) {
	path := writeCofactorFile(t, `SMILES
O

O
N
`)
	set, err := LoadCofactors(path)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestLoadCofactorsRaggedRows(t *testing.T) {
	path := writeCofactorFile(t, "name,SMILES\nwater,O\nshort\n")
	set, err := LoadCofactors(path)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestLoadCofactorsErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCofactors(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeCofactorFileInvalid))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := LoadCofactors(writeCofactorFile(t, ""))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeCofactorFileInvalid))
	})

	t.Run("no SMILES column", func(t *testing.T) {
		_, err := LoadCofactors(writeCofactorFile(t, "name,kegg_id\nwater,C00001\n"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeCofactorFileInvalid))
	})
}

func TestNewCofactorSet(t *testing.T) {
	set := NewCofactorSet("O", " N ", "")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.IsCofactor("N"))
	assert.True(t, set.IsCofactor(" O "))
}

func TestIsCofactorTrimsLookup(t *testing.T) {
	set := NewCofactorSet("O")
	assert.True(t, set.IsCofactor("O "))
}

func TestSMILESSorted(t *testing.T) {
	set := NewCofactorSet("O", "N", "[H+]")
	assert.Equal(t, []string{"N", "O", "[H+]"}, set.SMILES())
}

func TestNearest(t *testing.T) {
	fper, err := molecule.NewFingerprinter(rtypes.FPECFP4, 256)
	require.NoError(t, err)
	set := NewCofactorSet("O", "OCC(O)CO", "NC(=O)c1ccccc1")

	t.Run("exact member", func(t *testing.T) {
		best, score, err := set.Nearest(fper, "O")
		require.NoError(t, err)
		assert.Equal(t, "O", best)
		assert.Equal(t, 1.0, score)
	})

	t.Run("nearest non-member", func(t *testing.T) {
		// Ethylene glycol shares most of glycerol's environments and none of
		// the aromatic amide's.
		best, score, err := set.Nearest(fper, "OCCO")
		require.NoError(t, err)
		assert.Equal(t, "OCC(O)CO", best)
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, _, err := set.Nearest(fper, "C((")
		require.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		_, _, err := NewCofactorSet().Nearest(fper, "O")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	})
}
