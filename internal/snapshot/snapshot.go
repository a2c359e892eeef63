package snapshot

import (
	"time"
)

// UnknownRef is the sentinel for git metadata that was not supplied.
const UnknownRef = "unknown"

// Metadata is the bookkeeping attached to a snapshot. It is stored alongside
// the rendered text, associated by the same (template, topic, hash) key, and
// never embedded in the hashed content.
type Metadata struct {
	TemplateName    string    `json:"template_name"`
	TemplateVersion string    `json:"template_version"`
	TopicID         string    `json:"topic_id"`
	GitCommit       string    `json:"git_commit"`
	GitBranch       string    `json:"git_branch"`
	CreatedAt       time.Time `json:"created_at"`
}

// Snapshot is one content-addressed render artifact.
type Snapshot struct {
	Hash         string
	RenderedText string
	Meta         Metadata
}

// Create builds a snapshot from rendered text. The hash derives solely from
// the text. Empty commit/branch default to UnknownRef; a zero createdAt
// defaults to the current time.
func Create(renderedText, templateName, templateVersion, topicID, gitCommit, gitBranch string, createdAt time.Time) Snapshot {
	if gitCommit == "" {
		gitCommit = UnknownRef
	}
	if gitBranch == "" {
		gitBranch = UnknownRef
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Snapshot{
		Hash:         Hash(renderedText),
		RenderedText: renderedText,
		Meta: Metadata{
			TemplateName:    templateName,
			TemplateVersion: templateVersion,
			TopicID:         topicID,
			GitCommit:       gitCommit,
			GitBranch:       gitBranch,
			CreatedAt:       createdAt,
		},
	}
}

// VerifyResult reports an integrity check. Tampering is an expected, routine
// thing to check for, so a mismatch is a result, not an error.
type VerifyResult struct {
	Valid        bool
	StoredHash   string
	ComputedHash string
}

// Verify recomputes the hash from RenderedText and compares it to the stored
// hash, detecting any in-memory or on-disk tampering of the text.
func Verify(s Snapshot) VerifyResult {
	computed := Hash(s.RenderedText)
	return VerifyResult{
		Valid:        computed == s.Hash,
		StoredHash:   s.Hash,
		ComputedHash: computed,
	}
}
