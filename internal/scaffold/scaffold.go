// Package scaffold creates a starter compare.yaml from run reports found on
// disk, optionally letting the user pick which ones to include.
package scaffold

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/benwilkes9/mcpmetrics/internal/config"
)

// Discover walks root for metrics reports (*.metrics.json), skipping hidden
// directories. Results are sorted for stable output.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".metrics.json") {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for reports: %w", err)
	}
	sort.Strings(found)
	return found, nil
}

// reportOptions builds the multi-select options, all preselected.
func reportOptions(paths []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(paths))
	for _, p := range paths {
		opts = append(opts, huh.NewOption(p, p).Selected(true))
	}
	return opts
}

// Pick asks the user which discovered reports to include. With noInput set,
// every discovered report is selected.
func Pick(paths []string, noInput bool) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.metrics.json reports found")
	}
	if noInput {
		return paths, nil
	}

	selected := append([]string(nil), paths...)
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Run reports to compare").
			Options(reportOptions(paths)...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selecting reports: %w", err)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no reports selected")
	}
	return selected, nil
}

// Generate writes a compare.yaml listing the chosen reports.
func Generate(cfgPath string, paths []string) (*config.Config, error) {
	cfg := &config.Config{}
	for _, p := range paths {
		cfg.Runs = append(cfg.Runs, config.RunRef{Path: p})
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return nil, fmt.Errorf("generating %s: %w", filepath.Base(cfgPath), err)
	}
	return cfg, nil
}
