// Package main implements the promptforge CLI: deterministic rendering of
// research prompts, content-addressed snapshots, and drift detection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"promptforge/internal/config"
	"promptforge/internal/logging"
)

// Exit codes for the diff/drift commands: 0 = no differences,
// 1 = differences found, 2 = hard failure.
const (
	exitClean   = 0
	exitDiffers = 1
	exitFailure = 2
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Loaded workspace configuration, available to every command after
	// PersistentPreRunE.
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "promptforge - deterministic research prompt rendering and drift detection",
	Long: `promptforge renders parameterized research prompts from typed domain
objects, appends deterministically derived guardrail constraints, stores
renders as content-addressed snapshots, and diffs renders across time to
catch unintended drift.

Renders are pure: identical inputs always produce identical bytes, so the
snapshot hash alone proves whether anything changed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}

		cfg, err = config.Load(workspace)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: cwd)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitFailure)
	}
}
