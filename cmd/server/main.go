// Package main is the entry point of the resume analysis backend.
package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/resumeai/internal/buildinfo"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumeai-server",
	Short: "Resume analysis API server",
	Long:  "Serves passwordless sign-in, AI resume analysis with per-user quotas, and analysis history over HTTP.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	buildinfo.PrintBuildData(os.Stdout)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
