// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Muninn tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/muninn/internal/distill"
	"github.com/starford/muninn/internal/graph"
	"github.com/starford/muninn/internal/pack"
	"github.com/starford/muninn/internal/scaffold"
	"github.com/starford/muninn/internal/storage"
	"github.com/starford/muninn/internal/vault"
)

// PackDefaults carries the configured assembly defaults for tool calls
// that omit parameters.
type PackDefaults struct {
	Hops       int
	RecentDays int
	TopK       int
	MaxTokens  int
}

// Config wires the server to its directories and defaults.
type Config struct {
	OutputDir   string
	TemplateDir string
	Defaults    PackDefaults
}

// Server wraps the MCP server with Muninn tools. Every tool reloads the
// vault from disk: there is no persisted index, so tool results always
// match the files at call time.
type Server struct {
	mcp    *server.MCPServer
	store  storage.Provider
	cfg    Config
	logger *slog.Logger
}

// New creates a new MCP server with all Muninn tools registered.
func New(store storage.Provider, cfg Config, logger *slog.Logger) *Server {
	s := &Server{store: store, cfg: cfg, logger: logger}

	s.mcp = server.NewMCPServer(
		"Muninn",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("pack_context",
		mcp.WithDescription("Assemble a token-budgeted context pack of vault notes for a query, "+
			"combining keyword relevance, link-graph expansion from seed notes, and recency. "+
			"The pack is returned and also written to the output directory."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Question or topic to pack context for")),
		mcp.WithString("seeds", mcp.Description("Comma-separated seed note ids for graph expansion")),
		mcp.WithNumber("hops", mcp.Description("Link expansion depth from the seeds")),
		mcp.WithNumber("recent_days", mcp.Description("Include notes updated within this many days (0 disables)")),
		mcp.WithNumber("topk", mcp.Description("Keep the top K keyword matches")),
		mcp.WithNumber("max_tokens", mcp.Description("Token budget for the pack")),
	), s.packContext)

	s.mcp.AddTool(mcp.NewTool("new_note",
		mcp.WithDescription("Create a new vault note from its type template. "+
			"Read the muninn://note-format resource or the get_note_contract tool first."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Note type: topic, org, person, project, decision, or log")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("slug", mcp.Description("Optional slug override for the file name and id")),
	), s.newNote)

	s.mcp.AddTool(mcp.NewTool("distill_log",
		mcp.WithDescription("Capture the outcome of a conversation as a log note. "+
			"Sections are optional; [[wikilinks]] in section text become typed links."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic of the conversation")),
		mcp.WithString("context", mcp.Description("Background context")),
		mcp.WithString("decisions", mcp.Description("Decisions made")),
		mcp.WithString("knowledge", mcp.Description("New knowledge or insights")),
		mcp.WithString("tasks", mcp.Description("Follow-up tasks")),
		mcp.WithString("questions", mcp.Description("Open questions")),
		mcp.WithString("links", mcp.Description("Comma-separated related note ids")),
	), s.distillLog)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a vault note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id, e.g. topic.rag")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all vault notes, optionally filtered by type."),
		mcp.WithString("type", mcp.Description("Optional note type filter")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical Muninn note format contract. "+
			"Call this before creating notes to ensure correct structure."),
	), s.getNoteContract)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("muninn://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical note format that all vault notes must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// Listen serves MCP over the given streams until the context is cancelled
// or the input stream closes.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) loadVault() (*vault.Set, error) {
	return vault.Load(s.store, s.logger)
}

func (s *Server) packContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := pack.Options{
		Query:      query,
		Seeds:      splitIDs(argString(req, "seeds")),
		Hops:       argInt(req, "hops", s.cfg.Defaults.Hops),
		RecentDays: argInt(req, "recent_days", s.cfg.Defaults.RecentDays),
		TopK:       argInt(req, "topk", s.cfg.Defaults.TopK),
		MaxTokens:  argInt(req, "max_tokens", s.cfg.Defaults.MaxTokens),
	}

	set, err := s.loadVault()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	now := time.Now()
	p, err := pack.Assemble(set, graph.Build(set.Notes), opts, now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc := pack.Render(p)

	// Persist alongside CLI-generated packs; the result text is returned
	// either way.
	if outFS, fsErr := storage.NewFS(s.cfg.OutputDir); fsErr == nil {
		if wErr := outFS.Write(pack.Filename(now, query), []byte(doc)); wErr != nil {
			s.logger.Warn("failed to persist context pack", slog.String("error", wErr.Error()))
		}
	}

	return mcp.NewToolResultText(doc), nil
}

func (s *Server) newNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sc := scaffold.New(s.store, s.cfg.TemplateDir)
	res, err := sc.Create(noteType, title, argString(req, "slug"), false, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (id: %s)", res.Path, res.ID)), nil
}

func (s *Server) distillLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := distill.Input{
		Topic:     topic,
		Context:   argString(req, "context"),
		Decisions: argString(req, "decisions"),
		Knowledge: argString(req, "knowledge"),
		Tasks:     argString(req, "tasks"),
		Questions: argString(req, "questions"),
		Links:     splitIDs(argString(req, "links")),
	}
	res, err := distill.Build(in, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, readErr := s.store.Read(res.Path); readErr == nil {
		return mcp.NewToolResultError(fmt.Sprintf("note already exists: %s", res.Path)), nil
	}
	if err := s.store.Write(res.Path, res.Content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (id: %s)", res.Path, res.ID)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	set, err := s.loadVault()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note := set.Get(id)
	if note == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	data, err := s.store.Read(note.Path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeFilter := argString(req, "type")

	set, err := s.loadVault()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, n := range set.Notes {
		if typeFilter != "" && n.Type != typeFilter {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t(updated %s)", n.ID, n.Title, n.Updated.Format("2006-01-02")))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "muninn://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

// argString returns an optional string argument, or "" when absent.
func argString(req mcp.CallToolRequest, name string) string {
	if v, ok := req.GetArguments()[name].(string); ok {
		return v
	}
	return ""
}

// argInt returns an optional numeric argument, falling back to def.
// JSON numbers arrive as float64.
func argInt(req mcp.CallToolRequest, name string, def int) int {
	switch v := req.GetArguments()[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func splitIDs(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
