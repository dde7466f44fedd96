package pack

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/muninn/internal/slug"
)

// Render serialises the pack as a single Markdown document: a header with
// the query, generation timestamp, and parameters, then every included
// note in final priority order, then the omitted-notes ledger.
func Render(p *Pack) string {
	var b strings.Builder

	b.WriteString("# CONTEXT PACK v1\n\n")
	fmt.Fprintf(&b, "- Pack: %s\n", p.ID)
	fmt.Fprintf(&b, "- Query: %s\n", p.Query)
	fmt.Fprintf(&b, "- Generated: %s\n", p.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Strategies: %s\n", joinStrategies(p.Strategies))
	fmt.Fprintf(&b, "- Parameters: seeds=[%s] hops=%d recent-days=%d topk=%d max-tokens=%d\n",
		strings.Join(p.Options.Seeds, ", "), p.Options.Hops, p.Options.RecentDays,
		p.Options.TopK, p.Options.MaxTokens)
	fmt.Fprintf(&b, "- Included: %d notes, ~%d tokens (estimated at 1 token per 4 characters)\n",
		len(p.Entries), p.TotalTokens)

	b.WriteString("\n## Relevant Notes\n")
	if len(p.Entries) == 0 {
		b.WriteString("\n_No matching notes. The vault had no candidates for this query and these parameters._\n")
	}
	for _, e := range p.Entries {
		b.WriteString("\n")
		b.WriteString(e.section)
	}

	if len(p.Drops) > 0 {
		b.WriteString("\n## Omitted\n\n")
		for _, d := range p.Drops {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", d.ID, d.Strategy, d.Reason)
		}
	}
	return b.String()
}

// Section returns the rendered section for an entry (useful to callers
// that surface single notes, e.g. the MCP server).
func (e Entry) Section() string { return e.section }

// renderSection renders one note as a pack section. The body argument may
// be a truncated form of the note's body; truncated sections carry an
// explicit marker.
func renderSection(c candidate, body string, truncated bool) string {
	n := c.note
	var b strings.Builder

	fmt.Fprintf(&b, "### [%s] %s\n\n", n.ID, n.Title)
	fmt.Fprintf(&b, "- Strategy: %s", c.strategy)
	if c.seed {
		b.WriteString(" (seed)")
	}
	if c.score > 0 {
		fmt.Fprintf(&b, ", score %.1f", c.score)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Type: %s\n", n.Type)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(n.Tags, ", "))
	}
	fmt.Fprintf(&b, "- Confidence: %s\n", n.Confidence)
	fmt.Fprintf(&b, "- Updated: %s\n", n.Updated.Format("2006-01-02"))
	if len(n.Links) > 0 {
		var links []string
		for _, l := range n.Links {
			links = append(links, fmt.Sprintf("`%s` (%s)", l.To, l.Rel))
		}
		fmt.Fprintf(&b, "- Links: %s\n", strings.Join(links, ", "))
	}
	fmt.Fprintf(&b, "- Path: `%s`\n", n.Path)

	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	if truncated {
		b.WriteString("\n> [truncated to fit token budget]\n")
	}
	return b.String()
}

// Filename derives the timestamped output file name from the generation
// time and a slug of the query.
func Filename(generatedAt time.Time, query string) string {
	s := slug.MakeN(query, 30)
	if s == "" {
		s = "query"
	}
	return fmt.Sprintf("contextpack_%s_%s.md", generatedAt.Format("20060102_150405"), s)
}

func joinStrategies(ss []Strategy) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
