// Package web renders the single-page vocabulary view.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/models"
)

//go:embed templates/*.html
var tmplFS embed.FS

//go:embed static
var staticFS embed.FS

// Theme names.
const (
	ThemeSlate   = "slate"
	ThemeEmerald = "emerald"
	ThemeIndigo  = "indigo"
)

// Palette holds the colors of a theme.
type Palette struct {
	Dark    string
	Primary string
	Accent  string
	Soft    string
}

var palettes = map[string]Palette{
	ThemeSlate:   {Dark: "#0f172a", Primary: "#0284c7", Accent: "#38bdf8", Soft: "#f0f9ff"},
	ThemeEmerald: {Dark: "#022c22", Primary: "#059669", Accent: "#34d399", Soft: "#ecfdf5"},
	ThemeIndigo:  {Dark: "#1e1b4b", Primary: "#4f46e5", Accent: "#818cf8", Soft: "#eef2ff"},
}

// Themes returns the known theme names.
func Themes() []string {
	return []string{ThemeSlate, ThemeEmerald, ThemeIndigo}
}

// Lister is the read side of the vocabulary service.
type Lister interface {
	List() []models.VocabEntry
	Stats() models.Stats
}

type row struct {
	Number int
	models.VocabEntry
}

type pageData struct {
	Lang     string
	Theme    string
	Palette  Palette
	Stats    models.Stats
	Rows     []row
	Messages map[string]string
}

// Handler serves the page and its assets.
type Handler struct {
	svc   Lister
	msgs  *i18n.Translator
	theme string
	tmpl  *template.Template
}

// NewHandler creates a Handler. Unknown themes fall back to slate.
func NewHandler(svc Lister, msgs *i18n.Translator, theme string) *Handler {
	if _, ok := palettes[theme]; !ok {
		theme = ThemeSlate
	}
	funcs := template.FuncMap{"t": msgs.T}
	tmpl := template.Must(template.New("index.html").Funcs(funcs).ParseFS(tmplFS, "templates/index.html"))
	return &Handler{svc: svc, msgs: msgs, theme: theme, tmpl: tmpl}
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	entries := h.svc.List()
	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{Number: len(entries) - i, VocabEntry: e}
	}

	data := pageData{
		Lang:     h.msgs.Lang(),
		Theme:    h.theme,
		Palette:  palettes[h.theme],
		Stats:    h.svc.Stats(),
		Rows:     rows,
		Messages: h.msgs.Messages(),
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		slog.Error("render index failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// Static serves the embedded assets under /static/.
func (h *Handler) Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
