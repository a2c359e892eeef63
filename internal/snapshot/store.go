package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptforge/internal/logging"
)

// NotFoundError reports a requested hash absent for a (template, topic) pair.
type NotFoundError struct {
	Hash         string
	TemplateName string
	TopicID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snapshot %s not found for template %q topic %q",
		e.Hash, e.TemplateName, e.TopicID)
}

// snapshotDir is the content-addressed directory for one (template, topic)
// pair: <base>/<template name minus extension>/<topic id>.
func snapshotDir(baseDir, templateName, topicID string) string {
	name := strings.TrimSuffix(templateName, filepath.Ext(templateName))
	return filepath.Join(baseDir, name, topicID)
}

// Store persists a snapshot under its content address and returns the path
// of the rendered-text file. Storing an already-present hash is idempotent:
// the existing path is returned without rewriting, which also makes
// concurrent stores of identical content safe.
func Store(s Snapshot, baseDir string) (string, error) {
	dir := snapshotDir(baseDir, s.Meta.TemplateName, s.Meta.TopicID)
	textPath := filepath.Join(dir, s.Hash+".txt")

	if _, err := os.Stat(textPath); err == nil {
		logging.SnapshotDebug("snapshot %s already stored at %s", s.Hash, textPath)
		return textPath, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := os.WriteFile(textPath, []byte(s.RenderedText), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot text: %w", err)
	}

	meta, err := json.MarshalIndent(s.Meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot metadata: %w", err)
	}
	metaPath := filepath.Join(dir, s.Hash+".meta.json")
	if err := os.WriteFile(metaPath, meta, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot metadata: %w", err)
	}

	logging.Snapshot("stored snapshot %s for %s/%s", s.Hash, s.Meta.TemplateName, s.Meta.TopicID)
	return textPath, nil
}

// Load retrieves a stored snapshot by hash. The rendered text is read
// verbatim; a missing path yields *NotFoundError.
func Load(hash, templateName, topicID, baseDir string) (Snapshot, error) {
	dir := snapshotDir(baseDir, templateName, topicID)
	textPath := filepath.Join(dir, hash+".txt")

	text, err := os.ReadFile(textPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, &NotFoundError{Hash: hash, TemplateName: templateName, TopicID: topicID}
		}
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	s := Snapshot{Hash: hash, RenderedText: string(text)}

	// Metadata is associated bookkeeping; a missing sidecar degrades to an
	// empty Meta rather than failing the load.
	metaPath := filepath.Join(dir, hash+".meta.json")
	if metaBytes, err := os.ReadFile(metaPath); err == nil {
		if err := json.Unmarshal(metaBytes, &s.Meta); err != nil {
			return Snapshot{}, fmt.Errorf("failed to parse snapshot metadata: %w", err)
		}
	}

	return s, nil
}

// LatestStored returns the most recently created stored hash for a
// (template, topic) pair, determined from the metadata sidecars. Returns
// ("", nil) when nothing is stored. Used as the ledger-less fallback for
// baseline lookup.
func LatestStored(templateName, topicID, baseDir string) (string, error) {
	hashes, err := List(templateName, topicID, baseDir)
	if err != nil {
		return "", err
	}

	var best string
	var bestTime int64 = -1
	for _, h := range hashes {
		s, err := Load(h, templateName, topicID, baseDir)
		if err != nil {
			return "", err
		}
		if t := s.Meta.CreatedAt.UnixNano(); t > bestTime {
			bestTime = t
			best = h
		}
	}
	return best, nil
}

// List returns every stored hash for a (template, topic) pair, sorted. A
// missing directory is an empty list, never an error.
func List(templateName, topicID, baseDir string) ([]string, error) {
	dir := snapshotDir(baseDir, templateName, topicID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var hashes []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".txt") {
			hashes = append(hashes, strings.TrimSuffix(name, ".txt"))
		}
	}
	sort.Strings(hashes)
	return hashes, nil
}
