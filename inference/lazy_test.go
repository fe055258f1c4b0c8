package inference

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoplanet-prediction-api/inference/inferencetest"
)

func TestLazyLoadsOnce(t *testing.T) {
	dir := inferencetest.ModelDir(t, 0)

	var calls atomic.Int32
	lazy := NewLazy(KeplerArtifact, NewLocatorWithDirs(dir), func(path string) (Classifier, error) {
		calls.Add(1)
		return Load(path)
	})
	assert.False(t, lazy.Loaded())
	assert.Equal(t, filepath.Join(dir, KeplerArtifact.Name), lazy.Path())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lazy.Get()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, lazy.Loaded())
	assert.Equal(t, int32(1), calls.Load())
}

func TestLazyRetriesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	lazy := NewLazy(TessArtifact, NewLocatorWithDirs(dir), nil)

	_, err := lazy.Get()
	require.ErrorIs(t, err, ErrModelNotFound)
	assert.Empty(t, lazy.Path())

	inferencetest.WriteFile(t, dir, TessArtifact.Name, []byte("not json"))
	_, err = lazy.Get()
	require.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, lazy.Loaded())

	inferencetest.WriteFile(t, dir, TessArtifact.Name, inferencetest.TessEnsemble())
	c, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, TessFeatureCount, c.NumFeatures())
}

func TestLazyFeatureMismatch(t *testing.T) {
	dir := t.TempDir()
	// a Kepler-shaped network under the TESS name
	inferencetest.WriteFile(t, dir, TessArtifact.Name, inferencetest.KeplerNetwork(0))

	_, err := NewLazy(TessArtifact, NewLocatorWithDirs(dir), nil).Get()
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLazyLegacyArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tess_xgb_improved_model.pkl"), []byte{0x80}, 0o600))

	_, err := NewLazy(TessArtifact, NewLocatorWithDirs(dir), nil).Get()
	assert.ErrorIs(t, err, ErrMissingRuntime)
	assert.False(t, errors.Is(err, ErrModelNotFound))
}
