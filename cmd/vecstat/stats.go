package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanspareilsmyn/vecstat/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List the rolling statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range stats.Names() {
			kind := "single"
			if stats.IsPair(name) {
				kind = "pair"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
