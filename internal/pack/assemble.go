// Package pack assembles a bounded, relevant subset of vault notes into a
// single context document for priming an LLM conversation.
//
// Three selection strategies feed the assembler: graph expansion from
// user-supplied seeds, keyword relevance against the query, and a trailing
// recency window. Candidates are merged, deduplicated by id, ordered by
// strategy priority (graph > keyword > recency), and greedily included
// until the token budget runs out. Seed notes are never silently omitted:
// an oversized seed is truncated at a word boundary, and dropped only when
// even a metadata stub would not fit.
package pack

import (
	"sort"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/muninn/internal/graph"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/rank"
	"github.com/starford/muninn/internal/vault"
)

// Strategy identifies which selector produced a candidate.
type Strategy string

const (
	StrategyGraph   Strategy = "graph"
	StrategyKeyword Strategy = "keyword"
	StrategyRecency Strategy = "recency"
)

// packNamespace seeds the deterministic pack id: the same query,
// parameters, and generation time always produce the same id.
var packNamespace = uuid.MustParse("6f2cbb6e-9a1d-4be7-9b8e-3f5c0d7a41c2")

// Options configures one assembly run.
type Options struct {
	Query      string
	Seeds      []string
	Hops       int
	RecentDays int
	TopK       int
	MaxTokens  int
}

// Validate checks option ranges before assembly.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Query, validation.Required),
		validation.Field(&o.Hops, validation.Min(0)),
		validation.Field(&o.RecentDays, validation.Min(0)),
		validation.Field(&o.TopK, validation.Required, validation.Min(1)),
		validation.Field(&o.MaxTokens, validation.Required, validation.Min(1)),
	)
}

// Entry is one note included in the pack.
type Entry struct {
	Note      *models.Note
	Strategy  Strategy
	Score     float64
	Seed      bool
	Tokens    int
	Truncated bool

	section string // rendered once during assembly
}

// Drop records a candidate excluded from the pack, for transparency.
type Drop struct {
	ID       string
	Strategy Strategy
	Reason   string
}

// Pack is the terminal artifact of one invocation. It is never mutated
// after assembly and never read back by the tool.
type Pack struct {
	ID          string
	Query       string
	GeneratedAt time.Time
	Options     Options
	Strategies  []Strategy
	Entries     []Entry
	Drops       []Drop
	TotalTokens int
}

// candidate is the transient record produced by a selector before merging.
type candidate struct {
	note     *models.Note
	strategy Strategy
	score    float64
	seed     bool
}

// Assemble runs the three selectors, merges and orders their candidates,
// and packs them into the token budget. Zero candidates is not an error:
// an empty pack with an explicit notice is a legitimate answer.
func Assemble(set *vault.Set, g *graph.Graph, opts Options, now time.Time) (*Pack, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Pack{
		Query:       opts.Query,
		GeneratedAt: now,
		Options:     opts,
	}
	p.ID = packID(opts, now)

	queryTokens := rank.Tokenize(opts.Query)

	var ordered []candidate
	seen := make(map[string]struct{})
	add := func(c candidate) {
		if _, dup := seen[c.note.ID]; dup {
			return
		}
		seen[c.note.ID] = struct{}{}
		ordered = append(ordered, c)
	}

	// Graph strategy: explicitly requested context comes first.
	if len(opts.Seeds) > 0 {
		p.Strategies = append(p.Strategies, StrategyGraph)
		expanded, err := g.Expand(opts.Seeds, opts.Hops)
		if err != nil {
			return nil, err
		}
		for _, id := range opts.Seeds {
			add(candidate{note: set.Get(id), strategy: StrategyGraph, score: rank.Score(queryTokens, set.Get(id)), seed: true})
		}
		var rest []candidate
		for id := range expanded {
			if _, isSeed := seen[id]; isSeed {
				continue
			}
			n := set.Get(id)
			if n == nil {
				// Reached through a dangling link; there is no note to render.
				p.Drops = append(p.Drops, Drop{ID: id, Strategy: StrategyGraph, Reason: "dangling link target, no note in vault"})
				continue
			}
			rest = append(rest, candidate{note: n, strategy: StrategyGraph, score: rank.Score(queryTokens, n)})
		}
		sort.Slice(rest, func(i, j int) bool {
			if rest[i].score != rest[j].score {
				return rest[i].score > rest[j].score
			}
			return rest[i].note.ID < rest[j].note.ID
		})
		for _, c := range rest {
			add(c)
		}
	}

	// Keyword strategy always runs.
	p.Strategies = append(p.Strategies, StrategyKeyword)
	for _, s := range rank.TopK(queryTokens, set.Notes, opts.TopK) {
		add(candidate{note: s.Note, strategy: StrategyKeyword, score: s.Score})
	}

	// Recency strategy: a safety net for fresh context.
	if opts.RecentDays > 0 {
		p.Strategies = append(p.Strategies, StrategyRecency)
		recent := Recent(set.Notes, now, opts.RecentDays)
		var fresh []candidate
		for id := range recent {
			n := set.Get(id)
			fresh = append(fresh, candidate{note: n, strategy: StrategyRecency, score: rank.Score(queryTokens, n)})
		}
		sort.Slice(fresh, func(i, j int) bool {
			a, b := fresh[i].note, fresh[j].note
			if !a.Updated.Equal(b.Updated) {
				return a.Updated.After(b.Updated)
			}
			return a.ID < b.ID
		})
		for _, c := range fresh {
			add(c)
		}
	}

	// Greedy budget fill. Non-seed candidates that do not fit are dropped
	// and later, smaller candidates may still be admitted; seeds are
	// truncated instead of dropped.
	remaining := opts.MaxTokens
	for _, c := range ordered {
		section := renderSection(c, c.note.Body, false)
		cost := EstimateTokens(section)
		if cost <= remaining {
			p.Entries = append(p.Entries, Entry{
				Note: c.note, Strategy: c.strategy, Score: c.score, Seed: c.seed,
				Tokens: cost, section: section,
			})
			remaining -= cost
			continue
		}
		if !c.seed {
			p.Drops = append(p.Drops, Drop{ID: c.note.ID, Strategy: c.strategy, Reason: "token budget exceeded"})
			continue
		}
		entry, ok := truncateToFit(c, remaining)
		if !ok {
			p.Drops = append(p.Drops, Drop{ID: c.note.ID, Strategy: c.strategy, Reason: "token budget exhausted, even truncated stub does not fit"})
			continue
		}
		p.Entries = append(p.Entries, entry)
		remaining -= entry.Tokens
	}
	p.TotalTokens = opts.MaxTokens - remaining
	return p, nil
}

// packID derives a deterministic pack id from the query, parameters, and
// generation time, so identical runs are reproducible byte for byte.
func packID(opts Options, now time.Time) string {
	var b strings.Builder
	b.WriteString(opts.Query)
	b.WriteByte('\n')
	b.WriteString(strings.Join(opts.Seeds, ","))
	b.WriteByte('\n')
	b.WriteString(now.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(packNamespace, []byte(b.String())).String()
}

// truncateToFit shortens a seed note's body at a word boundary until the
// rendered section fits the remaining budget. ok is false when even the
// bodyless stub is too large.
func truncateToFit(c candidate, remaining int) (Entry, bool) {
	stub := renderSection(c, "", true)
	if EstimateTokens(stub) > remaining {
		return Entry{}, false
	}

	// Initial cut: the body can use at most the budget left over after the
	// stub, at four characters per token.
	budgetRunes := (remaining - EstimateTokens(stub)) * 4
	body := cutAtBoundary(c.note.Body, budgetRunes)

	for {
		section := renderSection(c, body, true)
		cost := EstimateTokens(section)
		if cost <= remaining {
			return Entry{
				Note: c.note, Strategy: c.strategy, Score: c.score, Seed: c.seed,
				Tokens: cost, Truncated: true, section: section,
			}, true
		}
		next := dropLastWord(body)
		if next == body {
			// Nothing left to drop; fall back to the bodyless stub.
			return Entry{
				Note: c.note, Strategy: c.strategy, Score: c.score, Seed: c.seed,
				Tokens: EstimateTokens(stub), Truncated: true, section: stub,
			}, true
		}
		body = next
	}
}

// cutAtBoundary returns at most n runes of text, cut back to the last
// whitespace so no word is split.
func cutAtBoundary(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return strings.TrimRightFunc(text, unicode.IsSpace)
	}
	cut := runes[:n]
	last := -1
	for i, r := range cut {
		if unicode.IsSpace(r) {
			last = i
		}
	}
	if last <= 0 {
		return ""
	}
	return strings.TrimRightFunc(string(cut[:last]), unicode.IsSpace)
}

// dropLastWord removes the final whitespace-delimited word from text.
func dropLastWord(text string) string {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	idx := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return strings.TrimRightFunc(trimmed[:idx], unicode.IsSpace)
}
