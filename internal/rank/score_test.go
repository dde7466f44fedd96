package rank

import (
	"testing"
	"time"

	"github.com/starford/muninn/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func note(id, title string, tags []string, body string, updated time.Time) *models.Note {
	return &models.Note{
		ID:      id,
		Type:    "topic",
		Title:   title,
		Tags:    tags,
		Body:    body,
		Created: day(1),
		Updated: updated,
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("RAG 시스템 설계, a b_c x!")
	want := []string{"rag", "시스템", "설계", "b_c"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScore_FieldWeights(t *testing.T) {
	q := Tokenize("retrieval")
	titleHit := note("topic.a", "Retrieval systems", nil, "", day(1))
	tagHit := note("topic.b", "Other", []string{"retrieval"}, "", day(1))
	bodyHit := note("topic.c", "Other", nil, "about retrieval", day(1))

	if got := Score(q, titleHit); got != 3 {
		t.Errorf("title score = %v, want 3", got)
	}
	if got := Score(q, tagHit); got != 2 {
		t.Errorf("tag score = %v, want 2", got)
	}
	if got := Score(q, bodyHit); got != 1 {
		t.Errorf("body score = %v, want 1", got)
	}

	// Hits accumulate across fields.
	all := note("topic.d", "Retrieval", []string{"retrieval"}, "retrieval", day(1))
	if got := Score(q, all); got != 6 {
		t.Errorf("combined score = %v, want 6", got)
	}
}

func TestScore_AliasCountsAsTagWeight(t *testing.T) {
	q := Tokenize("rag")
	n := note("topic.a", "Other", nil, "", day(1))
	n.Aliases = []string{"RAG"}
	if got := Score(q, n); got != 2 {
		t.Errorf("alias score = %v, want 2", got)
	}
}

func TestScore_NonNegative(t *testing.T) {
	q := Tokenize("completely unrelated query")
	n := note("topic.a", "Title", nil, "body", day(1))
	if got := Score(q, n); got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestTopK_OrderAndFilter(t *testing.T) {
	q := Tokenize("graph database")
	notes := []*models.Note{
		note("topic.c", "graph database", nil, "", day(1)),    // 6
		note("topic.a", "graph", nil, "database", day(2)),     // 4
		note("topic.b", "unrelated", nil, "", day(3)),         // 0, filtered
		note("topic.d", "database", nil, "graph text", day(1)), // 4, older than a? same day as c
	}
	got := TopK(q, notes, 10)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (zero scores filtered)", len(got))
	}
	if got[0].Note.ID != "topic.c" {
		t.Errorf("first = %s, want topic.c", got[0].Note.ID)
	}
	// topic.a and topic.d both score 4; topic.a is more recently updated.
	if got[1].Note.ID != "topic.a" || got[2].Note.ID != "topic.d" {
		t.Errorf("order = %s, %s", got[1].Note.ID, got[2].Note.ID)
	}
}

func TestTopK_TieBreakByID(t *testing.T) {
	q := Tokenize("term")
	notes := []*models.Note{
		note("topic.b", "term", nil, "", day(1)),
		note("topic.a", "term", nil, "", day(1)),
	}
	got := TopK(q, notes, 10)
	if got[0].Note.ID != "topic.a" || got[1].Note.ID != "topic.b" {
		t.Errorf("order = %s, %s; want id lexical order", got[0].Note.ID, got[1].Note.ID)
	}
}

func TestTopK_Bounded(t *testing.T) {
	q := Tokenize("term")
	var notes []*models.Note
	for _, id := range []string{"topic.a", "topic.b", "topic.c"} {
		notes = append(notes, note(id, "term", nil, "", day(1)))
	}
	if got := TopK(q, notes, 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
