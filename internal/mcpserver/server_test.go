package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/muninn/internal/storage"
	"github.com/starford/muninn/internal/testutil"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	_, store := testutil.TestVault(t)
	srv := New(store, Config{
		OutputDir: t.TempDir(),
		Defaults:  PackDefaults{Hops: 1, RecentDays: 30, TopK: 10, MaxTokens: 8000},
	}, testutil.DiscardLogger())
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error
	switch name {
	case "pack_context":
		result, err = srv.packContext(ctx, req)
	case "new_note":
		result, err = srv.newNote(ctx, req)
	case "distill_log":
		result, err = srv.distillLog(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return tc.Text
}

func TestPackContextTool(t *testing.T) {
	srv, store := testServer(t)
	testutil.WriteNote(t, store, "topics/rag.md", "topic.rag", testutil.NoteOpts{
		Title: "RAG", Body: "retrieval augmented generation",
		Links: [][2]string{{"uses", "topic.embedding"}},
	})
	testutil.WriteNote(t, store, "topics/embedding.md", "topic.embedding", testutil.NoteOpts{})

	res := callTool(t, srv, "pack_context", map[string]interface{}{
		"query": "retrieval",
		"seeds": "topic.rag",
		"hops":  float64(1),
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, res))
	}
	doc := textContent(t, res)
	if !strings.Contains(doc, "# CONTEXT PACK v1") {
		t.Error("missing pack header")
	}
	if !strings.Contains(doc, "[topic.rag]") || !strings.Contains(doc, "[topic.embedding]") {
		t.Errorf("pack missing expected notes:\n%s", doc)
	}
}

func TestPackContextTool_UnknownSeed(t *testing.T) {
	srv, _ := testServer(t)
	res := callTool(t, srv, "pack_context", map[string]interface{}{
		"query": "q",
		"seeds": "topic.typo",
	})
	if !res.IsError {
		t.Fatal("expected error result for unknown seed")
	}
}

func TestNewNoteTool(t *testing.T) {
	srv, store := testServer(t)
	res := callTool(t, srv, "new_note", map[string]interface{}{
		"type":  "topic",
		"title": "Graph Databases",
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", textContent(t, res))
	}
	if _, err := store.Read("topics/graph_databases.md"); err != nil {
		t.Errorf("note not written: %v", err)
	}

	// Second create must refuse to overwrite.
	res = callTool(t, srv, "new_note", map[string]interface{}{
		"type":  "topic",
		"title": "Graph Databases",
	})
	if !res.IsError {
		t.Error("expected error on duplicate create")
	}
}

func TestDistillLogTool(t *testing.T) {
	srv, store := testServer(t)
	res := callTool(t, srv, "distill_log", map[string]interface{}{
		"topic":     "schema talk",
		"decisions": "adopt typed links, see [[topic.ontology]]",
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", textContent(t, res))
	}
	paths, err := store.List("logs")
	if err != nil || len(paths) != 1 {
		t.Fatalf("logs = %v (%v)", paths, err)
	}
	data, _ := store.Read(paths[0])
	if !strings.Contains(string(data), "topic.ontology") {
		t.Error("wikilink not captured as typed link")
	}
}

func TestReadNoteTool(t *testing.T) {
	srv, store := testServer(t)
	testutil.WriteNote(t, store, "topics/a.md", "topic.a", testutil.NoteOpts{Title: "Alpha"})

	res := callTool(t, srv, "read_note", map[string]interface{}{"id": "topic.a"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", textContent(t, res))
	}
	if !strings.Contains(textContent(t, res), "id: topic.a") {
		t.Error("raw note content expected")
	}

	res = callTool(t, srv, "read_note", map[string]interface{}{"id": "topic.missing"})
	if !res.IsError {
		t.Error("expected error for missing id")
	}
}

func TestListNotesTool_TypeFilter(t *testing.T) {
	srv, store := testServer(t)
	testutil.WriteNote(t, store, "topics/a.md", "topic.a", testutil.NoteOpts{})
	testutil.WriteNote(t, store, "projects/p.md", "project.p", testutil.NoteOpts{})

	out := textContent(t, callTool(t, srv, "list_notes", map[string]interface{}{"type": "project"}))
	if strings.Contains(out, "topic.a") || !strings.Contains(out, "project.p") {
		t.Errorf("filtered list = %q", out)
	}
}

func TestGetNoteContractTool(t *testing.T) {
	srv, _ := testServer(t)
	out := textContent(t, callTool(t, srv, "get_note_contract", nil))
	if !strings.Contains(out, "Note Format Contract") {
		t.Error("contract text expected")
	}
}
