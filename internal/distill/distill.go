// Package distill captures the outcome of an LLM conversation as a new
// log-type note, so it feeds back into future context packs.
package distill

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/parser"
	"github.com/starford/muninn/internal/slug"
)

// Input is the collected outcome of one conversation. All sections except
// Topic are optional.
type Input struct {
	Topic     string
	Context   string
	Decisions string
	Knowledge string
	Tasks     string
	Questions string
	Links     []string
}

// Validate checks that a topic was supplied.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Topic, validation.Required),
	)
}

// Result is a rendered log note, ready to write into the vault.
type Result struct {
	ID      string
	Path    string
	Content []byte
}

// logFrontmatter fixes the emitted field order of the note header.
type logFrontmatter struct {
	ID         string        `yaml:"id"`
	Type       string        `yaml:"type"`
	Title      string        `yaml:"title"`
	Aliases    []string      `yaml:"aliases"`
	Tags       []string      `yaml:"tags"`
	Created    string        `yaml:"created"`
	Updated    string        `yaml:"updated"`
	Links      []models.Link `yaml:"links"`
	Sources    []string      `yaml:"sources"`
	Confidence string        `yaml:"confidence"`
}

// Build renders a distillation log note. Explicit links are merged with
// [[wikilinks]] found in the section text, deduplicated, and written as
// typed edges so distilled notes join the link graph.
func Build(in Input, now time.Time) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	date := now.Format("2006-01-02")
	topicSlug := slug.Make(in.Topic)
	if topicSlug == "" {
		return nil, fmt.Errorf("topic %q produces an empty slug", in.Topic)
	}
	id := fmt.Sprintf("log.%s_%s", date, topicSlug)

	links := mergeLinks(in)

	fm := logFrontmatter{
		ID:         id,
		Type:       models.TypeLog,
		Title:      fmt.Sprintf("%s — %s", date, in.Topic),
		Aliases:    []string{},
		Tags:       []string{"log/distill"},
		Created:    date,
		Updated:    date,
		Links:      links,
		Sources:    []string{},
		Confidence: models.ConfidenceMedium,
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("distill: marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# %s Distill — %s\n", date, in.Topic)
	section(&b, "Context", in.Context)
	section(&b, "Decisions", in.Decisions)
	section(&b, "New Knowledge", in.Knowledge)
	section(&b, "Tasks", in.Tasks)
	section(&b, "Open Questions", in.Questions)

	b.WriteString("\n## Links\n\n")
	if len(links) == 0 {
		b.WriteString("- \n")
	}
	for _, l := range links {
		fmt.Fprintf(&b, "- [[%s]]\n", l.To)
	}

	return &Result{
		ID:      id,
		Path:    fmt.Sprintf("logs/%s_%s.md", date, topicSlug),
		Content: []byte(b.String()),
	}, nil
}

func section(b *strings.Builder, heading, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n%s\n", heading, text)
}

// mergeLinks combines explicit link ids with wikilinks auto-extracted from
// all section text, deduplicated and sorted for stable output.
func mergeLinks(in Input) []models.Link {
	seen := make(map[string]struct{})
	for _, l := range in.Links {
		l = strings.TrimSpace(l)
		if l != "" {
			seen[l] = struct{}{}
		}
	}
	all := strings.Join([]string{in.Context, in.Decisions, in.Knowledge, in.Tasks, in.Questions}, " ")
	for _, l := range parser.ExtractWikilinks(all) {
		seen[l] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for l := range seen {
		ids = append(ids, l)
	}
	sort.Strings(ids)

	links := make([]models.Link, len(ids))
	for i, id := range ids {
		links[i] = models.Link{Rel: "relates", To: id}
	}
	return links
}

// Prompt collects an Input interactively: single-line topic and links,
// multi-line sections terminated by a blank line.
func Prompt(r io.Reader, w io.Writer) (Input, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprint(w, "Topic: ")
	if !sc.Scan() {
		return Input{}, fmt.Errorf("no input")
	}
	in := Input{Topic: strings.TrimSpace(sc.Text())}
	if in.Topic == "" {
		return Input{}, fmt.Errorf("topic is required")
	}

	fmt.Fprintln(w, "Enter each section below; finish a section with a blank line.")
	var err error
	if in.Context, err = multiline(sc, w, "Context"); err != nil {
		return Input{}, err
	}
	if in.Decisions, err = multiline(sc, w, "Decisions"); err != nil {
		return Input{}, err
	}
	if in.Knowledge, err = multiline(sc, w, "New Knowledge"); err != nil {
		return Input{}, err
	}
	if in.Tasks, err = multiline(sc, w, "Tasks"); err != nil {
		return Input{}, err
	}
	if in.Questions, err = multiline(sc, w, "Open Questions"); err != nil {
		return Input{}, err
	}

	fmt.Fprint(w, "Links (comma-separated note ids): ")
	if sc.Scan() {
		for _, l := range strings.Split(sc.Text(), ",") {
			if l = strings.TrimSpace(l); l != "" {
				in.Links = append(in.Links, l)
			}
		}
	}
	return in, sc.Err()
}

func multiline(sc *bufio.Scanner, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s (optional):\n", label)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), sc.Err()
}
