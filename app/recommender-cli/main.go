// Command recommender-cli runs recommendation jobs against the same stores
// as the HTTP server: cache warmup, feature inspection and one-off lists.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"tutorMarket/internal/bootstrap"
	"tutorMarket/pkg/config"
	"tutorMarket/pkg/logger"

	"github.com/spf13/cobra"
)

var svc *bootstrap.Service

var rootCmd = &cobra.Command{
	Use:           "recommender-cli",
	Short:         "Operate the educator recommendation engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.App.Environment)

		svc, err = bootstrap.New(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		if err := svc.Orchestrator.Drain(cmd.Context()); err != nil {
			logger.Warn("interaction log drain incomplete", "error", err)
		}
		return svc.Close()
	},
}

func main() {
	defer logger.Sync()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseUserID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return uint(id), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
