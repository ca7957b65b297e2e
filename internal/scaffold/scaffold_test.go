package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benwilkes9/mcpmetrics/internal/config"
)

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
}

func TestDiscoverFindsReportsSorted(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "artifacts/selenium.metrics.json")
	touch(t, root, "artifacts/playwright.metrics.json")
	touch(t, root, "notes.json")
	touch(t, root, ".cache/stale.metrics.json")

	found, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("artifacts", "playwright.metrics.json"),
		filepath.Join("artifacts", "selenium.metrics.json"),
	}, found)
}

func TestDiscoverEmpty(t *testing.T) {
	found, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestPickNoInputSelectsEverything(t *testing.T) {
	paths := []string{"a.metrics.json", "b.metrics.json"}
	selected, err := Pick(paths, true)
	require.NoError(t, err)
	assert.Equal(t, paths, selected)
}

func TestPickNoReports(t *testing.T) {
	_, err := Pick(nil, true)
	require.Error(t, err)
}

func TestReportOptionsPreselected(t *testing.T) {
	opts := reportOptions([]string{"a.metrics.json"})
	require.Len(t, opts, 1)
	assert.Equal(t, "a.metrics.json", opts[0].Value)
}

func TestGenerateWritesLoadableConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "compare.yaml")

	cfg, err := Generate(cfgPath, []string{"artifacts/playwright.metrics.json"})
	require.NoError(t, err)
	require.Len(t, cfg.Runs, 1)

	loaded, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.Len(t, loaded.Runs, 1)
	assert.Equal(t, "artifacts/playwright.metrics.json", loaded.Runs[0].Path)
	assert.Equal(t, "playwright", loaded.Runs[0].Name)
}
