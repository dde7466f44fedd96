// Package slug converts free text into file-name-safe slugs.
package slug

import (
	"regexp"
	"strings"
)

var (
	dropRe  = regexp.MustCompile(`[^\p{L}\p{N}\s_-]+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Make lowercases text, strips everything but letters, digits, whitespace,
// underscore and hyphen, and collapses whitespace runs to underscores.
// Letters include non-Latin scripts, so Korean titles slug cleanly.
func Make(text string) string {
	s := dropRe.ReplaceAllString(text, "")
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
	return strings.ToLower(s)
}

// MakeN slugs at most n runes of text.
func MakeN(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.Trim(Make(string(runes)), "_")
}
