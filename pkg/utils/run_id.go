package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateRunID creates a human-readable run ID.
// Format: {scenarioSlug}-{8charHexUUID}
//
// Example:
//   - Input: scenario="Two Armies"
//   - Output: "two-armies-a3f8e2b1"
func GenerateRunID(scenario string) string {
	slug := slugify(scenario)
	if slug == "" {
		slug = "run"
	}
	return slug + "-" + generateShortUUID()
}

// slugify lowercases the name and collapses every run of characters other
// than letters and digits into a single hyphen
func slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
