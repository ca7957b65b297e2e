package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
runs:
  - path: artifacts/playwright.metrics.json
  - name: Selenium MCP
    path: artifacts/selenium.metrics.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "artifacts/comparison", cfg.Output)
	require.Len(t, cfg.Runs, 2)
	assert.Equal(t, "playwright", cfg.Runs[0].Name)
	assert.Equal(t, "Selenium MCP", cfg.Runs[1].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "compare.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsEmptyRuns(t *testing.T) {
	path := writeConfig(t, "output: out\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one report")
}

func TestLoadRejectsMissingPath(t *testing.T) {
	path := writeConfig(t, `
runs:
  - name: no-path
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	path := writeConfig(t, `
runs:
  - path: a/run.metrics.json
  - path: b/run.metrics.json
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	path := writeConfig(t, "# "+strings.Repeat("x", maxConfigSize)+"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.yaml")
	original := &Config{
		Runs:   []RunRef{{Name: "Playwright MCP", Path: "a.metrics.json"}},
		Output: "out",
	}

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Runs, loaded.Runs)
	assert.Equal(t, "out", loaded.Output)
}
