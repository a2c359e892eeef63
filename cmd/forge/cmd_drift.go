// Package main drift command: run a YAML drift battery and summarize which
// checks drifted from their stored baselines.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptforge/internal/drift"
)

var driftCmd = &cobra.Command{
	Use:   "drift [suite.yaml]",
	Short: "Run a drift battery against stored snapshots",
	Long: `Renders every check in the battery and diffs it (normalized) against
the latest stored snapshot for the same template/topic pair.

Without an argument the suite configured as drift_suite in
.forge/config.json is used.

Exit codes: 0 clean, 1 drift detected, 2 hard failure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrift,
}

func runDrift(cmd *cobra.Command, args []string) error {
	suitePath := cfg.DriftSuite
	if len(args) == 1 {
		suitePath = args[0]
	}
	if suitePath == "" {
		return fmt.Errorf("no drift suite given and drift_suite is not configured")
	}

	battery, err := drift.LoadBattery(suitePath)
	if err != nil {
		return err
	}

	results, err := drift.Run(cmd.Context(), battery, drift.Dirs{
		Workspace:    workspace,
		TemplatesDir: cfg.TemplatesDir,
		SnapshotsDir: cfg.SnapshotsDir,
	})
	if err != nil {
		return err
	}

	printDriftSummary(results)
	logger.Info("drift battery finished",
		zap.Int("checks", len(results)),
		zap.Bool("drifted", drift.Drifted(results)))

	if drift.Failed(results) {
		os.Exit(exitFailure)
	}
	if drift.Drifted(results) {
		os.Exit(exitDiffers)
	}
	return nil
}

func printDriftSummary(results []drift.Result) {
	fmt.Println(headStyle.Render(fmt.Sprintf("%-24s %-10s %s", "CHECK", "STATUS", "DETAIL")))
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("%-24s %-10s %v\n", r.CheckID, badStyle.Render("error"), r.Err)
		case r.Missing:
			fmt.Printf("%-24s %-10s %s\n", r.CheckID, dimStyle.Render("no-base"), "no baseline snapshot stored")
		case r.Drifted:
			fmt.Printf("%-24s %-10s +%d -%d\n", r.CheckID, badStyle.Render("DRIFT"), r.Added, r.Removed)
		default:
			fmt.Printf("%-24s %-10s\n", r.CheckID, okStyle.Render("clean"))
		}
	}
}
