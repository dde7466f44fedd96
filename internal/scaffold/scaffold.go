// Package scaffold creates new note files from type-specific templates.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/slug"
	"github.com/starford/muninn/internal/storage"
)

//go:embed templates/*.md
var builtinTemplates embed.FS

// typeFolders maps a note type to its vault sub-directory.
var typeFolders = map[string]string{
	models.TypeTopic:    "topics",
	models.TypeOrg:      "orgs",
	models.TypePerson:   "people",
	models.TypeProject:  "projects",
	models.TypeDecision: "decisions",
	models.TypeLog:      "logs",
}

// Scaffolder writes template-based notes into the vault.
type Scaffolder struct {
	store       storage.Provider
	templateDir string // optional override; empty means built-in templates
}

// New creates a Scaffolder. templateDir may be empty.
func New(store storage.Provider, templateDir string) *Scaffolder {
	return &Scaffolder{store: store, templateDir: templateDir}
}

// Result describes a created note.
type Result struct {
	ID   string
	Path string
}

// Create writes a new note of the given type. The slug defaults to a
// slugified title; existing files are only replaced with force.
func (s *Scaffolder) Create(noteType, title, slugOverride string, force bool, now time.Time) (*Result, error) {
	folder, ok := typeFolders[noteType]
	if !ok {
		return nil, fmt.Errorf("unsupported note type %q (valid: %s)", noteType, strings.Join(models.Types(), ", "))
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	noteSlug := slugOverride
	if noteSlug == "" {
		noteSlug = slug.Make(title)
	}
	if noteSlug == "" {
		return nil, fmt.Errorf("title %q produces an empty slug, pass one explicitly", title)
	}

	tmpl, err := s.template(noteType)
	if err != nil {
		return nil, err
	}

	content := strings.NewReplacer(
		"{{slug}}", noteSlug,
		"{{title}}", title,
		"{{date}}", now.Format("2006-01-02"),
	).Replace(tmpl)

	rel := folder + "/" + noteSlug + ".md"
	if !force {
		if _, err := s.store.Read(rel); err == nil {
			return nil, fmt.Errorf("note %s: %w", rel, apperr.ErrAlreadyExists)
		}
	}
	if err := s.store.Write(rel, []byte(content)); err != nil {
		return nil, err
	}
	return &Result{ID: noteType + "." + noteSlug, Path: rel}, nil
}

// template returns the template text for a type, preferring the override
// directory when configured.
func (s *Scaffolder) template(noteType string) (string, error) {
	if s.templateDir != "" {
		p := filepath.Join(s.templateDir, noteType+".md")
		if data, err := os.ReadFile(p); err == nil {
			return string(data), nil
		}
	}
	data, err := builtinTemplates.ReadFile("templates/" + noteType + ".md")
	if err != nil {
		return "", fmt.Errorf("no template for type %q: %w", noteType, err)
	}
	return string(data), nil
}

// Folder returns the vault sub-directory for a note type, or "" if the
// type is unknown.
func Folder(noteType string) string {
	return typeFolders[noteType]
}
