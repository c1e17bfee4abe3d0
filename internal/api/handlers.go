package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kamus/internal/annotate"
	"github.com/starford/kamus/internal/apperr"
	"github.com/starford/kamus/internal/export"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/vocab"
)

// Handler holds API route handlers.
type Handler struct {
	svc  *vocab.Service
	msgs *i18n.Translator
}

// NewHandler creates a new Handler.
func NewHandler(svc *vocab.Service, msgs *i18n.Translator) *Handler {
	return &Handler{svc: svc, msgs: msgs}
}

// notFoundOr500 writes 404 for apperr.ErrNotFound and 500 otherwise.
func notFoundOr500(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error(op+" failed", slog.String("id", id), slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List entries, newest first, with stats
//	@Tags			entries
//	@Produce		json
//	@Success		200	{object}	EntryListResponse
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, EntryListResponse{
		Entries: h.svc.List(),
		Stats:   h.svc.Stats(),
		Busy:    h.svc.Busy(),
	})
}

// AddEntry handles POST /api/entries.
//
//	@Summary		Submit a word; the translation arrives via SSE
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AddEntryRequest	true	"Word to add"
//	@Success		202		{object}	models.VocabEntry
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/entries [post]
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if !decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pending, _, err := h.svc.Submit(r.Context(), req.English)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrBusy):
			writeError(w, http.StatusConflict, h.msgs.T(i18n.MsgBusy))
		case errors.Is(err, apperr.ErrEmptyWord):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("submit failed", slog.String("word", req.English), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusAccepted, pending)
}

// GetEntry handles GET /api/entries/{id}.
//
//	@Summary		Get one entry
//	@Tags			entries
//	@Produce		json
//	@Param			id	path		string	true	"Entry id"
//	@Success		200	{object}	models.VocabEntry
//	@Failure		404	{object}	errResponse
//	@Router			/entries/{id} [get]
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.svc.Get(id)
	if err != nil {
		notFoundOr500(w, "get entry", id, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// ToggleMemorized handles POST /api/entries/{id}/memorized.
//
//	@Summary		Flip the memorized flag
//	@Tags			entries
//	@Produce		json
//	@Param			id	path		string	true	"Entry id"
//	@Success		200	{object}	models.VocabEntry
//	@Failure		404	{object}	errResponse
//	@Router			/entries/{id}/memorized [post]
func (h *Handler) ToggleMemorized(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.svc.Toggle(id)
	if err != nil {
		notFoundOr500(w, "toggle", id, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEntry handles DELETE /api/entries/{id}.
//
//	@Summary		Remove an entry
//	@Tags			entries
//	@Param			id	path	string	true	"Entry id"
//	@Success		204	"Entry removed"
//	@Failure		404	{object}	errResponse
//	@Router			/entries/{id} [delete]
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Remove(id); err != nil {
		notFoundOr500(w, "remove", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearEntries handles DELETE /api/entries?confirm=true.
//
//	@Summary		Remove every entry
//	@Tags			entries
//	@Param			confirm	query	bool	true	"Must be true"
//	@Success		204		"List cleared"
//	@Failure		400		{object}	errResponse
//	@Router			/entries [delete]
func (h *Handler) ClearEntries(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.svc.ClearAll(confirmed); err != nil {
		if errors.Is(err, apperr.ErrNotConfirmed) {
			writeError(w, http.StatusBadRequest, "confirm=true is required")
			return
		}
		slog.Error("clear failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/import.
//
//	@Summary		Extract 5-10 words from a URL or pasted text
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"URL or text"
//	@Success		201		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	added, err := h.svc.Import(r.Context(), req.Source)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrBusy):
			writeError(w, http.StatusConflict, h.msgs.T(i18n.MsgBusy))
		case errors.Is(err, apperr.ErrEmptySource):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, annotate.ErrExtract):
			writeError(w, http.StatusBadGateway, h.msgs.T(i18n.MsgImportFailed))
		default:
			slog.Error("import failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, ImportResponse{Entries: added, Count: len(added)})
}

// Stats handles GET /api/stats.
//
//	@Summary		Progress statistics
//	@Tags			entries
//	@Produce		json
//	@Success		200	{object}	models.Stats
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// ExportXLSX handles GET /api/export.xlsx.
//
//	@Summary		Download the list as a spreadsheet
//	@Tags			export
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200
//	@Router			/export.xlsx [get]
func (h *Handler) ExportXLSX(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, h.svc.List(), h.msgs); err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="kamus.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
