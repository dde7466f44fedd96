// Package vault loads the note collection from storage into memory.
//
// The vault is hand-edited, so loading favours robustness over strictness:
// a malformed note is skipped with a warning and the run proceeds with all
// other valid notes. Duplicate ids are reported; the first occurrence wins.
package vault

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/parser"
	"github.com/starford/muninn/internal/storage"
)

// Set is an immutable snapshot of the vault at load time.
type Set struct {
	Notes []*models.Note

	// Skipped counts malformed files passed over during load.
	Skipped int
	// Duplicates holds one error per id collision encountered.
	Duplicates []*apperr.DuplicateIDError

	byID map[string]*models.Note
}

// Load walks every .md file under the store root, parses it, and returns
// the resulting note set. Malformed notes are skipped with a warning;
// duplicate ids keep the first occurrence and are recorded on the Set.
// Only I/O failures abort the load.
func Load(store storage.Provider, logger *slog.Logger) (*Set, error) {
	paths, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	set := &Set{byID: make(map[string]*models.Note)}
	for _, p := range paths {
		data, err := store.Read(p)
		if err != nil {
			return nil, fmt.Errorf("vault: %w", err)
		}
		note, err := parser.ParseNote(p, data)
		if err != nil {
			var pe *apperr.ParseError
			if errors.As(err, &pe) {
				logger.Warn("skipping malformed note",
					slog.String("path", p),
					slog.String("error", pe.Err.Error()))
				set.Skipped++
				continue
			}
			return nil, err
		}
		if first, ok := set.byID[note.ID]; ok {
			dup := &apperr.DuplicateIDError{
				ID:         note.ID,
				FirstPath:  first.Path,
				SecondPath: note.Path,
			}
			logger.Warn("duplicate note id, keeping first occurrence",
				slog.String("id", dup.ID),
				slog.String("first", dup.FirstPath),
				slog.String("second", dup.SecondPath))
			set.Duplicates = append(set.Duplicates, dup)
			continue
		}
		set.byID[note.ID] = note
		set.Notes = append(set.Notes, note)
	}

	logger.Info("vault loaded",
		slog.Int("notes", len(set.Notes)),
		slog.Int("skipped", set.Skipped),
		slog.Int("duplicates", len(set.Duplicates)))
	return set, nil
}

// Get returns the note with the given id, or nil if absent.
func (s *Set) Get(id string) *models.Note {
	return s.byID[id]
}

// Contains reports whether a note with the given id was loaded.
func (s *Set) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of loaded notes.
func (s *Set) Len() int { return len(s.Notes) }
