package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/benwilkes9/mcpmetrics/internal/history"
	"github.com/benwilkes9/mcpmetrics/internal/metrics"
	"github.com/benwilkes9/mcpmetrics/internal/stream"
	"github.com/benwilkes9/mcpmetrics/internal/summary"
)

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <stream.jsonl>",
		Short: "Build a metrics report from a recorded agent stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := cmd.Flags().GetString("plan")
			if err != nil {
				return fmt.Errorf("reading --plan flag: %w", err)
			}
			baseURL, err := cmd.Flags().GetString("base-url")
			if err != nil {
				return fmt.Errorf("reading --base-url flag: %w", err)
			}
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("reading --out flag: %w", err)
			}
			quiet, err := cmd.Flags().GetBool("quiet")
			if err != nil {
				return fmt.Errorf("reading --quiet flag: %w", err)
			}
			return runReplay(cmd, args[0], plan, baseURL, out, quiet)
		},
	}
	cmd.Flags().String("plan", "", "plan file the recorded run executed")
	cmd.Flags().String("base-url", "", "base URL the recorded run targeted")
	cmd.Flags().StringP("out", "o", "", "report output path (default <stream stem>.metrics.json)")
	cmd.Flags().BoolP("quiet", "q", false, "suppress the summary box")
	return cmd
}

func runReplay(cmd *cobra.Command, streamPath, plan, baseURL, out string, quiet bool) error {
	total, err := countSuites(streamPath)
	if err != nil {
		return err
	}

	f, err := os.Open(streamPath)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	collector := metrics.NewCollector(metrics.Options{
		PlanPath:   plan,
		BaseURL:    baseURL,
		SuiteTotal: total,
	})

	replayErr := stream.Replay(f, collector)
	if replayErr != nil {
		// Seal whatever was in flight so the partial report still lands.
		collector.AbortActiveSuite()
	}

	report, err := collector.FinalizeRun()
	if err != nil {
		return fmt.Errorf("finalizing run: %w", err)
	}
	if replayErr != nil {
		report.Run.Error = replayErr.Error()
	}

	if out == "" {
		out = defaultReportPath(streamPath)
	}
	if err := metrics.WriteReportFile(out, report); err != nil {
		return err
	}

	if err := appendHistory(streamPath, out, report); err != nil {
		return err
	}

	if !quiet {
		summary.PrintBox(cmd.OutOrStdout(), report)
		fmt.Fprintf(cmd.OutOrStdout(), "Metrics written to: %s\n", out)
	}
	return replayErr
}

func countSuites(streamPath string) (int, error) {
	f, err := os.Open(streamPath)
	if err != nil {
		return 0, fmt.Errorf("opening stream: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	total, err := stream.CountSuites(f)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// defaultReportPath places the report next to the stream:
// "run.stream.jsonl" becomes "run.metrics.json".
func defaultReportPath(streamPath string) string {
	base := filepath.Base(streamPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".stream")
	return filepath.Join(filepath.Dir(streamPath), base+".metrics.json")
}

func appendHistory(source, reportPath string, report *metrics.RunReport) error {
	h, err := history.Load(history.DefaultPath)
	if err != nil {
		return err
	}

	entry := history.Entry{
		Source:     source,
		ReportPath: reportPath,
		PlanPath:   report.Run.PlanPath,
		RecordedAt: time.Now(),
		Duration:   report.Run.DurationSeconds,
		Suites:     len(report.Suites),
		Status:     history.StatusCompleted,
	}
	if t, err := time.Parse(time.RFC3339Nano, report.Run.StartedAt); err == nil {
		entry.StartedAt = t
	}
	if u := report.Run.Usage; u != nil {
		entry.InputTokens = u.InputTokens
		entry.OutputTokens = u.OutputTokens
	}
	for _, s := range report.Suites {
		entry.ToolCalls += len(s.ToolCalls)
		if s.Aborted {
			entry.Status = history.StatusAborted
		}
	}

	if err := os.MkdirAll(filepath.Dir(history.DefaultPath), 0o750); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	h.Entries = append(h.Entries, entry)
	return history.Save(history.DefaultPath, h)
}
