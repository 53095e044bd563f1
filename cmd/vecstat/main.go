package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vecstat",
	Short: "Rolling statistics over null-aware numeric columns",
	Long: `vecstat computes windowed statistics over numeric columns whose missing
values are NaN. It runs one-off computations over files and a streaming
monitor that summarizes Kafka feature messages as Prometheus metrics.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}
