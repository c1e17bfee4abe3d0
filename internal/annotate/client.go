package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/starford/kamus/internal/apperr"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/models"
)

// ErrExtract wraps every Extract failure.
var ErrExtract = errors.New("vocabulary extraction failed")

// Client turns model output into domain values.
type Client struct {
	model  Model
	msgs   *i18n.Translator
	logger *slog.Logger
}

// NewClient creates a Client on top of model.
func NewClient(model Model, msgs *i18n.Translator, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{model: model, msgs: msgs, logger: logger}
}

// Translate annotates a single word. It never fails: on any error the
// returned value carries localized failure text instead.
func (c *Client) Translate(ctx context.Context, word string) models.AIResponse {
	raw, err := c.model.Generate(ctx, Request{
		Prompt: buildTranslatePrompt(word),
		Schema: translationSchema,
	})
	if err != nil {
		c.logger.Error("annotate: translate failed", slog.String("word", word), slog.String("error", err.Error()))
		return c.fallback()
	}

	var res struct {
		Translation *string `json:"translation"`
		Note        *string `json:"note"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &res); err != nil {
		c.logger.Error("annotate: malformed translation", slog.String("word", word), slog.String("error", err.Error()))
		return c.fallback()
	}
	if res.Translation == nil || res.Note == nil {
		c.logger.Error("annotate: translation is missing fields", slog.String("word", word))
		return c.fallback()
	}

	out := models.AIResponse{
		Translation: strings.TrimSpace(*res.Translation),
		Note:        strings.TrimSpace(*res.Note),
	}
	if out.Translation == "" {
		out.Translation = c.msgs.T(i18n.MsgMissingTranslation)
	}
	if out.Note == "" {
		out.Note = c.msgs.T(i18n.MsgMissingNote)
	}
	return out
}

func (c *Client) fallback() models.AIResponse {
	return models.AIResponse{
		Translation: c.msgs.T(i18n.MsgFallbackTranslation),
		Note:        c.msgs.T(i18n.MsgFallbackNote),
	}
}

// Extract asks the model for 5-10 vocabulary items from a URL or pasted
// text. Any failure is returned as an error wrapping ErrExtract and no
// partial result is kept.
func (c *Client) Extract(ctx context.Context, source string) (*models.BulkImportResponse, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, apperr.ErrEmptySource
	}

	isURL := LooksLikeURL(src)
	req := Request{
		Prompt: buildExtractPrompt(src, isURL),
		Schema: vocabularySchema,
	}
	if isURL {
		req.WebAccess = true
		req.URL = src
	}

	raw, err := c.model.Generate(ctx, req)
	if err != nil {
		c.logger.Error("annotate: extract failed", slog.Bool("url", isURL), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}

	var res struct {
		Words *[]models.WordItem `json:"words"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &res); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %w", ErrExtract, err)
	}
	if res.Words == nil {
		return nil, fmt.Errorf("%w: response has no words field", ErrExtract)
	}

	out := &models.BulkImportResponse{Words: make([]models.WordItem, 0, len(*res.Words))}
	for _, w := range *res.Words {
		w.English = strings.TrimSpace(w.English)
		if w.English == "" {
			continue
		}
		w.Indonesian = strings.TrimSpace(w.Indonesian)
		w.Note = strings.TrimSpace(w.Note)
		out.Words = append(out.Words, w)
	}
	if len(out.Words) == 0 {
		return nil, fmt.Errorf("%w: no vocabulary found", ErrExtract)
	}

	c.logger.Info("annotate: extracted vocabulary", slog.Bool("url", isURL), slog.Int("count", len(out.Words)))
	return out, nil
}

// LooksLikeURL reports whether source is an absolute http(s) URL.
func LooksLikeURL(source string) bool {
	s := strings.TrimSpace(source)
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// stripFences removes a Markdown code fence some backends wrap JSON in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
