// Package main diff command: compare two renders, from files or stored
// snapshots, with optional run-metadata normalization.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"promptforge/internal/diff"
	"promptforge/internal/snapshot"
)

var diffNormalize bool

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Line-level diff of two renders",
	Long: `Compares two rendered prompts. Arguments are either file paths or
snapshot references of the form <template>:<topic-id>:<hash>.

Line equality ignores trailing whitespace. With --normalize, run ids and
timestamps are masked first so renders differing only in run metadata
compare clean.

Exit codes: 0 no differences, 1 differences found, 2 hard failure.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVarP(&diffNormalize, "normalize", "n", false, "mask run ids and timestamps before diffing")
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldText, err := resolveDiffArg(args[0])
	if err != nil {
		return err
	}
	newText, err := resolveDiffArg(args[1])
	if err != nil {
		return err
	}

	var result *diff.Result
	if diffNormalize {
		result = diff.CompareNormalized(oldText, newText)
	} else {
		result = diff.Compare(oldText, newText)
	}

	fmt.Println(diff.Format(result))

	if result.HasChanges() {
		os.Exit(exitDiffers)
	}
	return nil
}

// resolveDiffArg reads a file path, or loads a snapshot given a
// template:topic:hash reference.
func resolveDiffArg(arg string) (string, error) {
	if parts := strings.Split(arg, ":"); len(parts) == 3 {
		snap, err := snapshot.Load(parts[2], parts[0], parts[1], cfg.SnapshotsDir)
		if err != nil {
			return "", err
		}
		return snap.RenderedText, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return string(data), nil
}
