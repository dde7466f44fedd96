package vault

import (
	"testing"

	"github.com/starford/muninn/internal/testutil"
)

func TestLoad_WellFormedNotes(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.WriteNote(t, store, "topics/rag.md", "topic.rag", testutil.NoteOpts{
		Title: "RAG",
		Links: [][2]string{{"uses", "topic.embedding"}},
	})
	testutil.WriteNote(t, store, "topics/embedding.md", "topic.embedding", testutil.NoteOpts{})

	set, err := Load(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("len = %d, want 2", set.Len())
	}
	n := set.Get("topic.rag")
	if n == nil {
		t.Fatal("topic.rag not found")
	}
	if len(n.Links) != 1 || n.Links[0].To != "topic.embedding" {
		t.Errorf("links = %+v", n.Links)
	}
	if !set.Contains("topic.embedding") {
		t.Error("topic.embedding missing")
	}
}

func TestLoad_SkipsMalformedWithoutAborting(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.WriteNote(t, store, "topics/good.md", "topic.good", testutil.NoteOpts{})
	if err := store.Write("topics/bad.md", []byte("no frontmatter here\n")); err != nil {
		t.Fatal(err)
	}

	set, err := Load(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("len = %d, want 1", set.Len())
	}
	if set.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", set.Skipped)
	}
}

func TestLoad_DuplicateIDKeepsFirstAndReports(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.WriteNote(t, store, "a/dup.md", "topic.dup", testutil.NoteOpts{Title: "First"})
	testutil.WriteNote(t, store, "b/dup.md", "topic.dup", testutil.NoteOpts{Title: "Second"})

	set, err := Load(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("len = %d, want 1", set.Len())
	}
	if got := set.Get("topic.dup").Title; got != "First" {
		t.Errorf("kept title = %q, want First (load order is sorted by path)", got)
	}
	if len(set.Duplicates) != 1 {
		t.Fatalf("duplicates = %d, want 1", len(set.Duplicates))
	}
	dup := set.Duplicates[0]
	if dup.ID != "topic.dup" || dup.FirstPath != "a/dup.md" || dup.SecondPath != "b/dup.md" {
		t.Errorf("duplicate = %+v", dup)
	}
}

func TestGet_UnknownID(t *testing.T) {
	_, store := testutil.TestVault(t)
	set, err := Load(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Get("topic.nope") != nil {
		t.Error("expected nil for unknown id")
	}
}
