// Package api implements the Kamus JSON API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/vocab"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *vocab.Service, msgs *i18n.Translator, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, msgs)

	r := chi.NewRouter()

	// Entries.
	r.Get("/entries", h.ListEntries)
	r.Post("/entries", h.AddEntry)
	r.Delete("/entries", h.ClearEntries)
	r.Get("/entries/{id}", h.GetEntry)
	r.Delete("/entries/{id}", h.DeleteEntry)
	r.Post("/entries/{id}/memorized", h.ToggleMemorized)

	// Bulk import.
	r.Post("/import", h.Import)

	r.Get("/stats", h.Stats)
	r.Get("/export.xlsx", h.ExportXLSX)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
