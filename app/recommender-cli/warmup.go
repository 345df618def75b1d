package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup <student-id>...",
	Short: "Precompute cached recommendation lists for students",
	Long: `Warmup runs the hybrid pipeline for each student and topic and stores
the short, unexplained lists in the cache. Without --topic the default topic
set is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")

		for _, arg := range args {
			id, err := parseUserID(arg)
			if err != nil {
				return err
			}
			n, err := svc.Orchestrator.Warmup(cmd.Context(), id, topics)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "student %d: %d candidates cached\n", id, n)
		}
		return nil
	},
}

func init() {
	warmupCmd.Flags().StringSlice("topic", nil, "topics to warm (repeatable)")

	rootCmd.AddCommand(warmupCmd)
}
