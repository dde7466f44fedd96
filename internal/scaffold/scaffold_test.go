package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/parser"
	"github.com/starford/muninn/internal/testutil"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestCreate_ProducesParsableNote(t *testing.T) {
	_, store := testutil.TestVault(t)
	s := New(store, "")

	res, err := s.Create("topic", "Machine Learning", "", false, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.ID != "topic.machine_learning" {
		t.Errorf("id = %q", res.ID)
	}
	if res.Path != "topics/machine_learning.md" {
		t.Errorf("path = %q", res.Path)
	}

	data, err := store.Read(res.Path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	note, err := parser.ParseNote(res.Path, data)
	if err != nil {
		t.Fatalf("scaffolded note must parse cleanly: %v", err)
	}
	if note.ID != res.ID || note.Type != "topic" || note.Title != "Machine Learning" {
		t.Errorf("note = %+v", note)
	}
	if note.Created.Format("2006-01-02") != "2025-06-15" {
		t.Errorf("created = %v", note.Created)
	}
}

func TestCreate_AllTypesHaveTemplates(t *testing.T) {
	_, store := testutil.TestVault(t)
	s := New(store, "")
	for _, typ := range []string{"topic", "org", "person", "project", "decision", "log"} {
		res, err := s.Create(typ, "Sample "+typ, "", false, now)
		if err != nil {
			t.Fatalf("Create(%s): %v", typ, err)
		}
		data, err := store.Read(res.Path)
		if err != nil {
			t.Fatalf("Read(%s): %v", res.Path, err)
		}
		if _, err := parser.ParseNote(res.Path, data); err != nil {
			t.Errorf("template for %s produces unparsable note: %v", typ, err)
		}
	}
}

func TestCreate_SlugOverride(t *testing.T) {
	_, store := testutil.TestVault(t)
	s := New(store, "")
	res, err := s.Create("org", "OpenAI", "openai", false, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.ID != "org.openai" || res.Path != "orgs/openai.md" {
		t.Errorf("res = %+v", res)
	}
}

func TestCreate_RefusesOverwrite(t *testing.T) {
	_, store := testutil.TestVault(t)
	s := New(store, "")
	if _, err := s.Create("topic", "Dup", "", false, now); err != nil {
		t.Fatal(err)
	}
	_, err := s.Create("topic", "Dup", "", false, now)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	if _, err := s.Create("topic", "Dup", "", true, now); err != nil {
		t.Errorf("force overwrite should succeed: %v", err)
	}
}

func TestCreate_UnknownType(t *testing.T) {
	_, store := testutil.TestVault(t)
	s := New(store, "")
	if _, err := s.Create("widget", "X", "", false, now); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestCreate_TemplateDirOverride(t *testing.T) {
	_, store := testutil.TestVault(t)
	dir := t.TempDir()
	custom := "---\nid: topic.{{slug}}\ntype: topic\ntitle: \"{{title}}\"\ncreated: {{date}}\nupdated: {{date}}\nconfidence: low\n---\ncustom body\n"
	if err := os.WriteFile(filepath.Join(dir, "topic.md"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(store, dir)
	res, err := s.Create("topic", "Custom", "", false, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	data, _ := store.Read(res.Path)
	if !strings.Contains(string(data), "custom body") {
		t.Error("override template not used")
	}

	// Types without an override fall back to the built-in template.
	if _, err := s.Create("person", "Fallback Person", "", false, now); err != nil {
		t.Errorf("builtin fallback failed: %v", err)
	}
}
