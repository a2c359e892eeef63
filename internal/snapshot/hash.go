// Package snapshot provides content-addressed storage, retrieval and
// integrity verification for rendered prompt text. The hash is a pure
// function of the rendered text alone; metadata never participates, so a
// stored artifact can be re-verified at any later time with nothing but its
// own content.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLen is the fixed width of content hashes, in hex characters.
const HashLen = 12

// Hash returns the 12-hex-character content digest of text. Identical text
// always yields an identical hash; any single-character difference,
// including a trailing newline, changes it.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:HashLen]
}

// TemplateVersion identifies a template source revision. Same algorithm as
// Hash but applied to raw template source; the two values are never
// interchangeable.
func TemplateVersion(source string) string {
	return Hash(source)
}
