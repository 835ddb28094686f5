// Package cli implements the pipectl command set: a small operator tool that
// drives the pipeline through its HTTP API.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiBase    string
	httpClient = &http.Client{Timeout: 30 * time.Second}
)

var rootCmd = &cobra.Command{
	Use:   "pipectl",
	Short: "Operator CLI for the content generation pipeline.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", envOr("PIPELINE_API", "http://localhost:8080"), "Base URL of the pipeline API")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
