package main

import (
	"fmt"

	"github.com/dmitrijs2005/resumeai/internal/server"
	"github.com/dmitrijs2005/resumeai/internal/server/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Start the HTTP API and gRPC health servers",
	Long: `Start the HTTP API. Settings come from defaults, an optional JSON file (-c),
RESUMEAI_* environment variables and flags, in increasing priority.`,
	DisableFlagParsing: true,
	RunE:               runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// loadConfig hands the raw arguments to the config loaders, which own the flags.
func loadConfig(args []string) (*config.Config, error) {
	if args == nil {
		args = []string{}
	}
	cfg := config.LoadConfig(args)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, err := server.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx := cmd.Context()
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	app.Run(ctx)
	return nil
}
