package inference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorFindFirstExisting(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "m.json"), []byte("{}"), 0o600))

	loc := NewLocatorWithDirs(first, second)
	got, err := loc.Find("m.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "m.json"), got)

	require.NoError(t, os.WriteFile(filepath.Join(first, "m.json"), []byte("{}"), 0o600))
	got, err = loc.Find("m.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "m.json"), got)
}

func TestLocatorNotFoundListsCandidates(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	loc := NewLocatorWithDirs(a, b)

	_, err := loc.Find("missing.json")
	require.ErrorIs(t, err, ErrModelNotFound)
	assert.Contains(t, err.Error(), filepath.Join(a, "missing.json"))
	assert.Contains(t, err.Error(), filepath.Join(b, "missing.json"))
}

func TestLocatorSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "m.json"), 0o755))

	_, err := NewLocatorWithDirs(dir).Find("m.json")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestNewLocatorOrder(t *testing.T) {
	dir := t.TempDir()
	candidates := NewLocator(dir).Candidates("x.json")

	require.NotEmpty(t, candidates)
	assert.Equal(t, filepath.Join(dir, "x.json"), candidates[0])
	assert.Equal(t, filepath.Join(DeploymentDir, "x.json"), candidates[len(candidates)-1])
}

func TestCandidatesDeduplicated(t *testing.T) {
	dir := t.TempDir()
	candidates := NewLocatorWithDirs(dir, dir+string(filepath.Separator), filepath.Join(dir, ".")).Candidates("x.json")
	assert.Len(t, candidates, 1)
}
