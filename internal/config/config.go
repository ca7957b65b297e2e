// Package config loads the compare configuration from compare.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the default config location relative to the working
// directory.
const DefaultPath = "compare.yaml"

// Config lists the run reports to compare and where to write the output.
type Config struct {
	Runs   []RunRef `yaml:"runs"`
	Output string   `yaml:"output,omitempty"`
}

// RunRef names one run report on disk.
type RunRef struct {
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
}

// maxConfigSize is the maximum config file size we'll read (64 KiB).
const maxConfigSize = 64 * 1024

// Load reads a compare config from the given path.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a compare config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Runs) == 0 {
		return fmt.Errorf("runs must list at least one report")
	}
	seen := map[string]bool{}
	for i, r := range c.Runs {
		if strings.TrimSpace(r.Path) == "" {
			return fmt.Errorf("runs[%d]: path is required", i)
		}
		name := r.Name
		if name == "" {
			name = nameFromPath(r.Path)
		}
		if seen[name] {
			return fmt.Errorf("runs[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = "artifacts/comparison"
	}
	for i := range c.Runs {
		if c.Runs[i].Name == "" {
			c.Runs[i].Name = nameFromPath(c.Runs[i].Path)
		}
	}
}

// nameFromPath derives a display name from a report filename:
// "playwright.metrics.json" becomes "playwright".
func nameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".json")
	base = strings.TrimSuffix(base, ".metrics")
	return base
}
