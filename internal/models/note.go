// Package models defines the domain types for Muninn.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Note types.
const (
	TypeTopic    = "topic"
	TypeOrg      = "org"
	TypePerson   = "person"
	TypeProject  = "project"
	TypeDecision = "decision"
	TypeLog      = "log"
)

// Confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Types returns all valid note types in declaration order.
func Types() []string {
	return []string{TypeTopic, TypeOrg, TypePerson, TypeProject, TypeDecision, TypeLog}
}

// idRe matches `<type>.<slug>`. Slugs may contain any letter or digit
// (vault content is frequently non-Latin), plus underscore and hyphen.
var idRe = regexp.MustCompile(`^[a-z]+\.[\p{L}\p{N}_-]+$`)

// Link is a typed, directed edge from one note to another by id.
// The target need not resolve to an existing note.
type Link struct {
	Rel string `yaml:"rel"`
	To  string `yaml:"to"`
}

// Note is one parsed vault file: an atomic concept, person, org, project,
// decision, or log entry.
type Note struct {
	ID         string
	Type       string
	Title      string
	Aliases    []string
	Tags       []string
	Created    time.Time
	Updated    time.Time
	Links      []Link
	Sources    []any
	Confidence string
	Body       string

	// Path is the vault-relative file path the note was loaded from.
	Path string
}

// Validate checks the metadata invariants: required fields, enum values,
// id shape, and that the id's type prefix agrees with the type field.
func (n *Note) Validate() error {
	err := validation.ValidateStruct(n,
		validation.Field(&n.ID, validation.Required, validation.Match(idRe).Error("must have the form <type>.<slug>")),
		validation.Field(&n.Type, validation.Required, validation.In(TypeTopic, TypeOrg, TypePerson, TypeProject, TypeDecision, TypeLog)),
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.Created, validation.Required),
		validation.Field(&n.Updated, validation.Required),
		validation.Field(&n.Confidence, validation.Required, validation.In(ConfidenceHigh, ConfidenceMedium, ConfidenceLow)),
	)
	if err != nil {
		return err
	}
	if prefix, _, _ := strings.Cut(n.ID, "."); prefix != n.Type {
		return fmt.Errorf("id prefix %q does not match type %q", prefix, n.Type)
	}
	if n.Updated.Before(n.Created) {
		return fmt.Errorf("updated %s is before created %s",
			n.Updated.Format("2006-01-02"), n.Created.Format("2006-01-02"))
	}
	return nil
}

// LinkTargets returns the ids this note links to, optionally filtered by
// relation type (empty rel means all).
func (n *Note) LinkTargets(rel string) []string {
	var out []string
	for _, l := range n.Links {
		if rel != "" && l.Rel != rel {
			continue
		}
		out = append(out, l.To)
	}
	return out
}
