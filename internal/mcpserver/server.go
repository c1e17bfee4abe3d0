// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the vocabulary list to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/kamus/internal/apperr"
	"github.com/starford/kamus/internal/models"
	"github.com/starford/kamus/internal/vocab"
)

// VocabularyURI is the resource holding the full list.
const VocabularyURI = "kamus://vocabulary"

// List filters accepted by list_words.
const (
	FilterAll       = "all"
	FilterMemorized = "memorized"
	FilterLearning  = "learning"
)

// Server wraps the MCP server with Kamus tools.
type Server struct {
	mcp *server.MCPServer
	svc *vocab.Service
}

// New creates a new MCP server with all Kamus tools registered.
func New(svc *vocab.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Kamus",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_word",
		mcp.WithDescription("Translate an English word to Indonesian with a short usage note and add it to the list. "+
			"Returns the stored entry once the translation has finished."),
		mcp.WithString("word", mcp.Required(), mcp.Description("English word or short phrase")),
	), s.addWord)

	s.mcp.AddTool(mcp.NewTool("list_words",
		mcp.WithDescription("List vocabulary entries, newest first."),
		mcp.WithString("filter",
			mcp.Description("Which entries to return"),
			mcp.Enum(FilterAll, FilterMemorized, FilterLearning),
		),
	), s.listWords)

	s.mcp.AddTool(mcp.NewTool("toggle_memorized",
		mcp.WithDescription("Flip the memorized flag of an entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	), s.toggleMemorized)

	s.mcp.AddTool(mcp.NewTool("remove_word",
		mcp.WithDescription("Remove an entry from the list."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	), s.removeWord)

	s.mcp.AddTool(mcp.NewTool("import_source",
		mcp.WithDescription("Extract 5-10 useful English words from a URL or pasted English text and "+
			"add them, translated, at the top of the list."),
		mcp.WithString("source", mcp.Required(), mcp.Description("An http(s) URL or English text")),
	), s.importSource)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Return total, memorized count and progress percentage."),
	), s.getStats)

	s.mcp.AddResource(
		mcp.NewResource(VocabularyURI, "Vocabulary list",
			mcp.WithResourceDescription("All vocabulary entries as a JSON array, newest first."),
			mcp.WithMIMEType("application/json"),
		),
		s.readVocabularyResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error, id string) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) addWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.svc.Add(ctx, word)
	if err != nil {
		return errorResult(err, word), nil
	}
	return jsonResult(e), nil
}

func (s *Server) listWords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := req.GetString("filter", FilterAll)

	entries := s.svc.List()
	out := make([]models.VocabEntry, 0, len(entries))
	for _, e := range entries {
		switch {
		case filter == FilterMemorized && !e.IsMemorized:
		case filter == FilterLearning && e.IsMemorized:
		default:
			out = append(out, e)
		}
	}
	return jsonResult(out), nil
}

func (s *Server) toggleMemorized(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.svc.Toggle(id)
	if err != nil {
		return errorResult(err, id), nil
	}
	return jsonResult(e), nil
}

func (s *Server) removeWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Remove(id); err != nil {
		return errorResult(err, id), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
}

func (s *Server) importSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	added, err := s.svc.Import(ctx, source)
	if err != nil {
		return errorResult(err, ""), nil
	}
	return jsonResult(added), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Stats()), nil
}

func (s *Server) readVocabularyResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.svc.List())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      VocabularyURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
