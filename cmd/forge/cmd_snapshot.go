// Package main snapshot commands: list, show, verify and history for the
// content-addressed snapshot store.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"promptforge/internal/snapshot"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage content-addressed prompt snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list <template> <topic-id>",
	Short: "List stored snapshot hashes for a template/topic pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <template> <topic-id> <hash>",
	Short: "Print a stored snapshot's rendered text",
	Args:  cobra.ExactArgs(3),
	RunE:  runSnapshotShow,
}

var snapshotVerifyCmd = &cobra.Command{
	Use:   "verify <template> <topic-id> <hash>",
	Short: "Re-verify a stored snapshot's integrity",
	Long: `Recomputes the content hash from the stored rendered text and compares
it to the snapshot's address. A mismatch means the stored text was modified
after storing.`,
	Args: cobra.ExactArgs(3),
	RunE: runSnapshotVerify,
}

var snapshotHistoryCmd = &cobra.Command{
	Use:   "history <template> <topic-id>",
	Short: "Show the ledger history for a template/topic pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotHistory,
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotVerifyCmd)
	snapshotCmd.AddCommand(snapshotHistoryCmd)
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	hashes, err := snapshot.List(args[0], args[1], cfg.SnapshotsDir)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		fmt.Println("no snapshots stored")
		return nil
	}
	for _, h := range hashes {
		fmt.Println(h)
	}
	return nil
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.Load(args[2], args[0], args[1], cfg.SnapshotsDir)
	if err != nil {
		return err
	}
	fmt.Print(snap.RenderedText)
	return nil
}

func runSnapshotVerify(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.Load(args[2], args[0], args[1], cfg.SnapshotsDir)
	if err != nil {
		return err
	}

	result := snapshot.Verify(snap)
	if result.Valid {
		fmt.Println(okStyle.Render(fmt.Sprintf("valid: %s", result.StoredHash)))
		return nil
	}

	fmt.Println(badStyle.Render("INTEGRITY MISMATCH"))
	fmt.Printf("  stored:   %s\n", result.StoredHash)
	fmt.Printf("  computed: %s\n", result.ComputedHash)
	os.Exit(exitDiffers)
	return nil
}

func runSnapshotHistory(cmd *cobra.Command, args []string) error {
	ledger, err := snapshot.OpenLedger(cfg.SnapshotsDir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	entries, err := ledger.History(args[0], args[1])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no ledger entries")
		return nil
	}

	fmt.Println(headStyle.Render(fmt.Sprintf("%-14s %-14s %-12s %-20s %s",
		"HASH", "TEMPLATE VER", "COMMIT", "BRANCH", "CREATED")))
	for _, e := range entries {
		fmt.Printf("%-14s %-14s %-12s %-20s %s\n",
			e.Hash, e.TemplateVersion, e.GitCommit, e.GitBranch,
			dimStyle.Render(e.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return nil
}
