// Package rank scores notes against a free-text query by keyword overlap.
package rank

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/starford/muninn/internal/models"
)

// wordRe extracts word tokens. Letters cover non-Latin scripts (vault
// content is frequently Korean), digits and underscore round out
// identifier-style terms.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Field weights: a title hit is worth more than a tag or alias hit, which
// is worth more than a body hit. Weights are additive across fields.
const (
	weightTitle = 3.0
	weightTag   = 2.0
	weightBody  = 1.0
)

// minTokenLen drops single-character noise tokens.
const minTokenLen = 2

// Tokenize lowercases s and returns its word tokens of at least two runes.
func Tokenize(s string) []string {
	var out []string
	for _, tok := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func tokenSet(parts ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range parts {
		for _, tok := range Tokenize(p) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Score computes the keyword-match score of a note for the given query
// tokens. Each query token contributes weightTitle if present among the
// title tokens, weightTag if present among tag or alias tokens, and
// weightBody if present among body tokens; contributions accumulate
// across fields. The result is always ≥ 0.
func Score(queryTokens []string, note *models.Note) float64 {
	titleSet := tokenSet(note.Title)
	tagSet := tokenSet(append(note.Tags, note.Aliases...)...)
	bodySet := tokenSet(note.Body)

	var score float64
	for _, tok := range queryTokens {
		if _, ok := titleSet[tok]; ok {
			score += weightTitle
		}
		if _, ok := tagSet[tok]; ok {
			score += weightTag
		}
		if _, ok := bodySet[tok]; ok {
			score += weightBody
		}
	}
	return score
}

// Scored pairs a note with its relevance score.
type Scored struct {
	Note  *models.Note
	Score float64
}

// TopK returns the k highest-scoring notes with score > 0, ordered by
// score descending; ties break by more recent updated date, then by id
// lexical order, so identical inputs always rank identically.
func TopK(queryTokens []string, notes []*models.Note, k int) []Scored {
	var scored []Scored
	for _, n := range notes {
		if s := Score(queryTokens, n); s > 0 {
			scored = append(scored, Scored{Note: n, Score: s})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Note.Updated.Equal(b.Note.Updated) {
			return a.Note.Updated.After(b.Note.Updated)
		}
		return a.Note.ID < b.Note.ID
	})
	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
