package main

import (
	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features <user-id>",
	Short: "Print the feature record the recommenders see for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		feat, err := svc.Orchestrator.Features(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, feat)
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
