package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "mcpmetrics",
		Short:   "Capture, inspect, and compare metrics from MCP agent test runs",
		Version: version,
	}

	root.AddCommand(replayCmd())
	root.AddCommand(showCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(initCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
