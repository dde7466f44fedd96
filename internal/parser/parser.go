// Package parser extracts structured frontmatter and the Markdown body
// from raw note files.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/models"
)

var wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// dateLayouts accepted in frontmatter date fields.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Date wraps time.Time so YAML scalars like `2025-01-15` decode regardless
// of whether the emitter quoted them.
type Date struct {
	time.Time
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" {
		return errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unparseable date %q", s)
}

// frontmatter mirrors the recognized metadata header fields.
type frontmatter struct {
	ID         string        `yaml:"id"`
	Type       string        `yaml:"type"`
	Title      string        `yaml:"title"`
	Aliases    []string      `yaml:"aliases"`
	Tags       []string      `yaml:"tags"`
	Created    *Date         `yaml:"created"`
	Updated    *Date         `yaml:"updated"`
	Links      []models.Link `yaml:"links"`
	Sources    []any         `yaml:"sources"`
	Confidence string        `yaml:"confidence"`
}

// ParseNote parses a raw vault file into a Note. Any malformed input —
// missing frontmatter, invalid YAML, a missing required field, an
// unparseable date, or an id not matching <type>.<slug> — yields a
// *apperr.ParseError so the loader can skip the file and continue.
func ParseNote(path string, data []byte) (*models.Note, error) {
	fail := func(err error) (*models.Note, error) {
		return nil, &apperr.ParseError{Path: path, Err: err}
	}

	block, body, ok := splitFrontmatter(data)
	if !ok {
		return fail(errors.New("missing frontmatter header"))
	}

	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fail(fmt.Errorf("invalid frontmatter: %w", err))
	}

	note := &models.Note{
		ID:         fm.ID,
		Type:       fm.Type,
		Title:      fm.Title,
		Aliases:    fm.Aliases,
		Tags:       fm.Tags,
		Links:      fm.Links,
		Sources:    fm.Sources,
		Confidence: fm.Confidence,
		Body:       body,
		Path:       path,
	}
	if fm.Created != nil {
		note.Created = fm.Created.Time
	}
	if fm.Updated != nil {
		note.Updated = fm.Updated.Time
	}
	if note.Confidence == "" {
		note.Confidence = models.ConfidenceMedium
	}
	if err := note.Validate(); err != nil {
		return fail(err)
	}
	return note, nil
}

// splitFrontmatter separates the YAML block between leading --- delimiters
// from the Markdown body. ok is false when no complete header is present.
func splitFrontmatter(data []byte) (block []byte, body string, ok bool) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", false
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", false
	}
	block = rest[:idx]
	after := rest[idx+1+len(delim):]
	body = strings.TrimLeft(string(after), "\n\r")
	return block, body, true
}

// ExtractWikilinks returns deduplicated [[wikilink]] targets from text,
// normalising [[target|alias]] to target. Used by the distiller to pick up
// note references embedded in free text.
func ExtractWikilinks(text string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
