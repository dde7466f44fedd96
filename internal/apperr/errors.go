// Package apperr defines the error taxonomy shared across Muninn.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// ParseError reports a malformed note. The loader skips the offending file
// and continues with the rest of the vault.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateIDError reports two vault files claiming the same note id.
// The first occurrence wins; the second is skipped.
type DuplicateIDError struct {
	ID         string
	FirstPath  string
	SecondPath string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate note id %q: %s and %s", e.ID, e.FirstPath, e.SecondPath)
}

// UnknownSeedError reports a seed id that does not match any note in the
// vault. Seeds are explicit user input, so a typo is fatal to the run.
type UnknownSeedError struct {
	ID string
}

func (e *UnknownSeedError) Error() string {
	return fmt.Sprintf("unknown seed note id %q", e.ID)
}
