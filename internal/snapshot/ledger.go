package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"promptforge/internal/logging"
)

// Ledger is an optional SQLite index over stored snapshots. It is
// bookkeeping only: the filesystem store remains the source of truth, the
// ledger never participates in hashing or verification, and every insert is
// idempotent on (hash, template, topic).
type Ledger struct {
	db   *sql.DB
	path string
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	hash             TEXT NOT NULL,
	template_name    TEXT NOT NULL,
	topic_id         TEXT NOT NULL,
	template_version TEXT NOT NULL,
	git_commit       TEXT NOT NULL,
	git_branch       TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	PRIMARY KEY (hash, template_name, topic_id)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_key
	ON snapshots (template_name, topic_id, created_at);
`

// OpenLedger opens (or creates) the snapshot ledger at <baseDir>/ledger.db.
func OpenLedger(baseDir string) (*Ledger, error) {
	timer := logging.StartTimer(logging.CategorySnapshot, "OpenLedger")
	defer timer.Stop()

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot base directory: %w", err)
	}

	path := filepath.Join(baseDir, "ledger.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}

	logging.SnapshotDebug("ledger open at %s", path)
	return &Ledger{db: db, path: path}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record indexes a stored snapshot. Re-recording the same snapshot is a
// no-op.
func (l *Ledger) Record(s Snapshot) error {
	_, err := l.db.Exec(`
		INSERT OR IGNORE INTO snapshots
			(hash, template_name, topic_id, template_version, git_commit, git_branch, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Hash, s.Meta.TemplateName, s.Meta.TopicID, s.Meta.TemplateVersion,
		s.Meta.GitCommit, s.Meta.GitBranch, s.Meta.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently created hash for a (template, topic)
// pair, or ("", nil) when none is recorded.
func (l *Ledger) Latest(templateName, topicID string) (string, error) {
	row := l.db.QueryRow(`
		SELECT hash FROM snapshots
		WHERE template_name = ? AND topic_id = ?
		ORDER BY created_at DESC, hash DESC
		LIMIT 1`, templateName, topicID)

	var hash string
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return hash, nil
}

// HistoryEntry is one row of a (template, topic) snapshot history.
type HistoryEntry struct {
	Hash            string
	TemplateVersion string
	GitCommit       string
	GitBranch       string
	CreatedAt       time.Time
}

// History returns all recorded snapshots for a (template, topic) pair,
// newest first.
func (l *Ledger) History(templateName, topicID string) ([]HistoryEntry, error) {
	rows, err := l.db.Query(`
		SELECT hash, template_version, git_commit, git_branch, created_at
		FROM snapshots
		WHERE template_name = ? AND topic_id = ?
		ORDER BY created_at DESC, hash DESC`, templateName, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var created string
		if err := rows.Scan(&e.Hash, &e.TemplateVersion, &e.GitCommit, &e.GitBranch, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
