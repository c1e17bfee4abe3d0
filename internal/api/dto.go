package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kamus/internal/models"
	"github.com/starford/kamus/internal/vocab"
)

const (
	maxWordLen   = 200
	maxSourceLen = 200_000
)

// AddEntryRequest is the request body for submitting a word.
type AddEntryRequest struct {
	English string `json:"english" example:"Ambitious" validate:"required"`
}

// Normalize trims surrounding whitespace.
func (r *AddEntryRequest) Normalize() {
	r.English = strings.TrimSpace(r.English)
}

// Validate checks the request.
func (r AddEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.English, validation.Required, validation.RuneLength(1, maxWordLen)),
	)
}

// ImportRequest is the request body for a bulk import.
type ImportRequest struct {
	Source string `json:"source" example:"https://example.com/article" validate:"required"`
}

// Normalize trims surrounding whitespace.
func (r *ImportRequest) Normalize() {
	r.Source = strings.TrimSpace(r.Source)
}

// Validate checks the request.
func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Source, validation.Required, validation.RuneLength(1, maxSourceLen)),
	)
}

// EntryListResponse is the list payload.
type EntryListResponse struct {
	Entries []models.VocabEntry `json:"entries" validate:"required"`
	Stats   models.Stats        `json:"stats" validate:"required"`
	Busy    vocab.State         `json:"busy" validate:"required"`
}

// ImportResponse lists the entries added by an import.
type ImportResponse struct {
	Entries []models.VocabEntry `json:"entries" validate:"required"`
	Count   int                 `json:"count" example:"7" validate:"required"`
}
