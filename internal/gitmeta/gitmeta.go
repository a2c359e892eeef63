// Package gitmeta captures git commit/branch metadata for snapshot
// bookkeeping. Capture is best-effort: outside a repository, or without a
// git binary, it degrades to the store's "unknown" sentinel instead of
// failing the render.
package gitmeta

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Unknown is returned for any value that could not be captured.
const Unknown = "unknown"

// Capture returns the current short commit hash and branch name of the
// repository containing dir.
func Capture(ctx context.Context, dir string) (commit, branch string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	commit = run(ctx, dir, "rev-parse", "--short", "HEAD")
	branch = run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	return commit, branch
}

func run(ctx context.Context, dir string, args ...string) string {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return Unknown
	}
	s := strings.TrimSpace(string(out))
	if s == "" {
		return Unknown
	}
	return s
}
