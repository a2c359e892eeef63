package diff

import "regexp"

// Placeholder tokens substituted for non-deterministic fields before
// comparison. Two renders differing only in run metadata normalize to
// identical text and diff clean.
const (
	RunIDToken     = "<RUN_ID>"
	TimestampToken = "<TIMESTAMP>"
)

var (
	// Run identifiers: 8-digit date, dash, 6 hex chars (e.g. 20240115-a1b2c3).
	runIDRe = regexp.MustCompile(`\d{8}-[0-9a-f]{6}`)

	// ISO-8601 timestamps with optional fraction and zone.
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`)
)

// Normalize rewrites run-identifier and timestamp patterns to fixed tokens.
// Timestamps are rewritten first; a run id's date prefix can never match the
// longer timestamp pattern, so the passes do not interfere.
func Normalize(text string) string {
	text = timestampRe.ReplaceAllString(text, TimestampToken)
	return runIDRe.ReplaceAllString(text, RunIDToken)
}

// CompareNormalized normalizes both sides, then diffs.
func CompareNormalized(oldText, newText string) *Result {
	return Compare(Normalize(oldText), Normalize(newText))
}
