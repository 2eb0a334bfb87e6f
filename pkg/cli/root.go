// Package cli implements the reqcheck command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextyfine-dev/reqcheck/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	logLevel   string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reqcheck",
	Short: "reqcheck validates request data against declarative schemas",
	Long: `reqcheck checks JSON documents against declarative validation schemas.

Schemas are defined in YAML or JSON files as rule maps (go-playground
validator syntax) or JSON Schema documents, the same definitions the
middleware library consumes at request time. Use it to lint schema files
and to test payloads without standing up a server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

func newLogger() *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.FormatText,
	})
}
