package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benwilkes9/mcpmetrics/internal/history"
	"github.com/benwilkes9/mcpmetrics/internal/metrics"
	"github.com/benwilkes9/mcpmetrics/internal/summary"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <report.metrics.json>",
		Short: "Render the summary of a persisted run report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := metrics.ReadReportFile(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			summary.PrintBox(w, report)
			if len(report.Suites) > 0 {
				fmt.Fprintln(w)
				summary.PrintSuites(w, report)
			}
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List previously processed runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := history.Load(history.DefaultPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(h.Entries) == 0 {
				fmt.Fprintln(w, "No runs recorded yet.")
				return nil
			}
			for _, e := range h.Entries {
				fmt.Fprintf(w, "%s  %-9s %3d suites  %8s in / %8s out  %s\n",
					e.RecordedAt.Format("2006-01-02 15:04"),
					e.Status,
					e.Suites,
					summary.FormatTokens(e.InputTokens),
					summary.FormatTokens(e.OutputTokens),
					e.ReportPath)
			}
			return nil
		},
	}
}
