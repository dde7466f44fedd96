// Package testutil provides shared test helpers for setting up vaults.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/muninn/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// DiscardLogger returns a logger that swallows all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// VaultBuilder offers a compact way to populate a test vault.
type VaultBuilder struct {
	T     *testing.T
	Store storage.Provider
}

// Note writes a well-formed note file to path.
func (b *VaultBuilder) Note(path, id string, opts NoteOpts) {
	b.T.Helper()
	WriteNote(b.T, b.Store, path, id, opts)
}

// NoteOpts customises a note written by WriteNote.
type NoteOpts struct {
	Title      string
	Tags       []string
	Aliases    []string
	Created    string // YYYY-MM-DD, defaults to 2025-01-01
	Updated    string // YYYY-MM-DD, defaults to Created
	Links      [][2]string
	Confidence string
	Body       string
}

// WriteNote writes a well-formed note file to path. The note type is
// derived from the id prefix.
func WriteNote(t *testing.T, store storage.Provider, path, id string, opts NoteOpts) {
	t.Helper()

	typ, _, _ := strings.Cut(id, ".")
	if opts.Title == "" {
		opts.Title = id
	}
	if opts.Created == "" {
		opts.Created = "2025-01-01"
	}
	if opts.Updated == "" {
		opts.Updated = opts.Created
	}
	if opts.Confidence == "" {
		opts.Confidence = "medium"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "---\nid: %s\ntype: %s\ntitle: %q\n", id, typ, opts.Title)
	fmt.Fprintf(&b, "aliases: [%s]\n", quoteList(opts.Aliases))
	fmt.Fprintf(&b, "tags: [%s]\n", quoteList(opts.Tags))
	fmt.Fprintf(&b, "created: %s\nupdated: %s\n", opts.Created, opts.Updated)
	if len(opts.Links) == 0 {
		b.WriteString("links: []\n")
	} else {
		b.WriteString("links:\n")
		for _, l := range opts.Links {
			fmt.Fprintf(&b, "  - rel: %s\n    to: %s\n", l[0], l[1])
		}
	}
	fmt.Fprintf(&b, "sources: []\nconfidence: %s\n---\n%s\n", opts.Confidence, opts.Body)

	if err := store.Write(path, []byte(b.String())); err != nil {
		t.Fatalf("write note %s: %v", path, err)
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
