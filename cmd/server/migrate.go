package main

import (
	"fmt"

	"github.com/dmitrijs2005/resumeai/internal/server"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:                "migrate [flags]",
	Short:              "Apply database migrations and exit",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		logger, err := server.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}

		return server.Migrate(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
