package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benwilkes9/mcpmetrics/internal/compare"
	"github.com/benwilkes9/mcpmetrics/internal/config"
	"github.com/benwilkes9/mcpmetrics/internal/metrics"
	"github.com/benwilkes9/mcpmetrics/internal/scaffold"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [report.metrics.json ...]",
		Short: "Compare KPIs across run reports",
		Long: "Compare KPIs across run reports. With no arguments, reports are read\n" +
			"from compare.yaml in the working directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("reading --config flag: %w", err)
			}
			outDir, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("reading --output flag: %w", err)
			}
			return runCompare(cmd, args, cfgPath, outDir)
		},
	}
	cmd.Flags().StringP("config", "c", config.DefaultPath, "compare config file")
	cmd.Flags().StringP("output", "O", "", "output directory (overrides config)")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string, cfgPath, outDir string) error {
	refs, output, err := compareInputs(args, cfgPath)
	if err != nil {
		return err
	}
	if outDir != "" {
		output = outDir
	}

	result := &compare.Comparison{}
	for _, ref := range refs {
		report, err := metrics.ReadReportFile(ref.Path)
		if err != nil {
			result.Missing = append(result.Missing, fmt.Sprintf("%s → %s", ref.Name, ref.Path))
			continue
		}
		result.Comparisons = append(result.Comparisons, compare.ComputeKPIs(ref.Name, report))
	}

	if err := os.MkdirAll(output, 0o750); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	jsonPath := filepath.Join(output, "run.comparison.json")
	if err := writeComparisonJSON(jsonPath, result); err != nil {
		return err
	}

	mdPath := filepath.Join(output, "run.comparison.md")
	var md bytes.Buffer
	if err := compare.RenderMarkdown(&md, result); err != nil {
		return err
	}
	if err := os.WriteFile(mdPath, md.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing comparison markdown: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Wrote: %s\n", jsonPath)
	fmt.Fprintf(w, "Wrote: %s\n", mdPath)
	if len(result.Missing) > 0 {
		fmt.Fprintln(w, "Missing reports:")
		for _, m := range result.Missing {
			fmt.Fprintf(w, "- %s\n", m)
		}
	}
	return nil
}

// compareInputs resolves which reports to compare: CLI arguments when given,
// the compare config otherwise.
func compareInputs(args []string, cfgPath string) ([]config.RunRef, string, error) {
	if len(args) > 0 {
		refs := make([]config.RunRef, 0, len(args))
		for _, path := range args {
			refs = append(refs, config.RunRef{Name: nameForArg(path), Path: path})
		}
		return refs, "artifacts/comparison", nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", err
	}
	return cfg.Runs, cfg.Output, nil
}

func nameForArg(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext == ".json" || ext == ".metrics"; ext = filepath.Ext(base) {
		base = base[:len(base)-len(ext)]
	}
	return base
}

func writeComparisonJSON(path string, result *compare.Comparison) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling comparison: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing comparison: %w", err)
	}
	return nil
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold compare.yaml from reports found under the working directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			noInput, err := cmd.Flags().GetBool("no-input")
			if err != nil {
				return fmt.Errorf("reading --no-input flag: %w", err)
			}

			found, err := scaffold.Discover(".")
			if err != nil {
				return err
			}
			selected, err := scaffold.Pick(found, noInput)
			if err != nil {
				return err
			}
			cfg, err := scaffold.Generate(config.DefaultPath, selected)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s with %d runs.\n", config.DefaultPath, len(cfg.Runs))
			return nil
		},
	}
	cmd.Flags().Bool("no-input", false, "select all discovered reports without prompting")
	return cmd
}
