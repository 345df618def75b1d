package main

import (
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <student-id>",
	Short: "Print how a student has interacted with served recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		m, err := svc.Orchestrator.Metrics(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, m)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
