package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/kamus/internal/annotate"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/models"
	"github.com/starford/kamus/internal/store"
	"github.com/starford/kamus/internal/testutil"
	"github.com/starford/kamus/internal/vocab"
)

type stubAI struct {
	extractErr error
}

func (s stubAI) Translate(_ context.Context, word string) models.AIResponse {
	return models.AIResponse{Translation: "id:" + word, Note: "note"}
}

func (s stubAI) Extract(_ context.Context, _ string) (*models.BulkImportResponse, error) {
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return &models.BulkImportResponse{Words: []models.WordItem{
		{English: "Ambitious", Indonesian: "Ambisius", Note: "a"},
		{English: "Resilient", Indonesian: "Tangguh", Note: "b"},
	}}, nil
}

func testServer(t *testing.T, ai stubAI) (*Server, *vocab.Service) {
	t.Helper()
	st := store.New(testutil.NewMemStorage(), store.DefaultKey, i18n.MustNew("id"),
		store.WithIDGenerator(testutil.SeqIDs()),
		store.WithLogger(testutil.DiscardLogger()),
	)
	st.Load()
	svc := vocab.NewService(st, ai, vocab.WithLogger(testutil.DiscardLogger()))
	t.Cleanup(svc.Wait)
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "add_word":
		result, err = srv.addWord(ctx, req)
	case "list_words":
		result, err = srv.listWords(ctx, req)
	case "toggle_memorized":
		result, err = srv.toggleMemorized(ctx, req)
	case "remove_word":
		result, err = srv.removeWord(ctx, req)
	case "import_source":
		result, err = srv.importSource(ctx, req)
	case "get_stats":
		result, err = srv.getStats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decodeResult[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return v
}

func TestAddWord(t *testing.T) {
	srv, _ := testServer(t, stubAI{})

	e := decodeResult[models.VocabEntry](t, callTool(t, srv, "add_word", map[string]any{"word": "Ambitious"}))
	if e.English != "Ambitious" || e.Indonesian != "id:Ambitious" || e.IsLoading {
		t.Errorf("entry = %+v", e)
	}

	r := callTool(t, srv, "add_word", map[string]any{"word": "   "})
	if !r.IsError {
		t.Error("expected error for blank word")
	}
	r = callTool(t, srv, "add_word", map[string]any{})
	if !r.IsError {
		t.Error("expected error for missing word")
	}
}

func TestListWordsFilter(t *testing.T) {
	srv, svc := testServer(t, stubAI{})
	first := decodeResult[models.VocabEntry](t, callTool(t, srv, "add_word", map[string]any{"word": "one"}))
	callTool(t, srv, "add_word", map[string]any{"word": "two"})
	if _, err := svc.Toggle(first.ID); err != nil {
		t.Fatal(err)
	}

	cases := map[string][]string{
		"":              {"two", "one"},
		FilterAll:       {"two", "one"},
		FilterMemorized: {"one"},
		FilterLearning:  {"two"},
	}
	for filter, want := range cases {
		args := map[string]any{}
		if filter != "" {
			args["filter"] = filter
		}
		got := decodeResult[[]models.VocabEntry](t, callTool(t, srv, "list_words", args))
		if len(got) != len(want) {
			t.Errorf("filter %q: got %d entries, want %d", filter, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i].English != want[i] {
				t.Errorf("filter %q: [%d] = %q, want %q", filter, i, got[i].English, want[i])
			}
		}
	}
}

func TestToggleAndRemove(t *testing.T) {
	srv, svc := testServer(t, stubAI{})
	e := decodeResult[models.VocabEntry](t, callTool(t, srv, "add_word", map[string]any{"word": "one"}))

	toggled := decodeResult[models.VocabEntry](t, callTool(t, srv, "toggle_memorized", map[string]any{"id": e.ID}))
	if !toggled.IsMemorized {
		t.Error("expected memorized")
	}

	r := callTool(t, srv, "remove_word", map[string]any{"id": e.ID})
	if resultText(r) != "removed: "+e.ID {
		t.Errorf("remove result = %q", resultText(r))
	}
	if len(svc.List()) != 0 {
		t.Error("entry not removed")
	}

	r = callTool(t, srv, "toggle_memorized", map[string]any{"id": e.ID})
	if !r.IsError || resultText(r) != "not found: "+e.ID {
		t.Errorf("toggle missing = %q", resultText(r))
	}
	r = callTool(t, srv, "remove_word", map[string]any{"id": e.ID})
	if !r.IsError {
		t.Error("expected error removing missing entry")
	}
}

func TestImportSource(t *testing.T) {
	srv, svc := testServer(t, stubAI{})

	added := decodeResult[[]models.VocabEntry](t, callTool(t, srv, "import_source", map[string]any{"source": "some text"}))
	if len(added) != 2 || !added[0].IsNew {
		t.Errorf("added = %+v", added)
	}
	if len(svc.List()) != 2 {
		t.Error("entries not stored")
	}

	st := decodeResult[models.Stats](t, callTool(t, srv, "get_stats", nil))
	if st.Total != 2 || st.Memorized != 0 || st.Progress != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestImportSourceFailure(t *testing.T) {
	srv, svc := testServer(t, stubAI{extractErr: fmt.Errorf("%w: upstream", annotate.ErrExtract)})

	r := callTool(t, srv, "import_source", map[string]any{"source": "https://example.com"})
	if !r.IsError {
		t.Error("expected error result")
	}
	if len(svc.List()) != 0 {
		t.Error("list changed on failure")
	}
}

func TestVocabularyResource(t *testing.T) {
	srv, _ := testServer(t, stubAI{})
	callTool(t, srv, "add_word", map[string]any{"word": "one"})

	contents, err := srv.readVocabularyResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	var list []models.VocabEntry
	if err := json.Unmarshal([]byte(text), &list); err != nil || len(list) != 1 {
		t.Errorf("resource = %q (%v)", text, err)
	}
}
