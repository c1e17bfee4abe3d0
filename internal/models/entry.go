// Package models defines the domain types for Kamus.
package models

// VocabEntry is one word in the vocabulary list.
//
// JSON names match the browser storage format so an exported list loads unchanged.
type VocabEntry struct {
	ID          string `json:"id"`
	English     string `json:"english"`
	Indonesian  string `json:"indonesian"`
	IsMemorized bool   `json:"isMemorized"`
	Note        string `json:"note"`
	IsLoading   bool   `json:"isLoading"`
	IsNew       bool   `json:"isNew,omitempty"`
	IsFailed    bool   `json:"isFailed,omitempty"`
}

// AIResponse is the annotation of a single word.
type AIResponse struct {
	Translation string `json:"translation"`
	Note        string `json:"note"`
}

// WordItem is one vocabulary item extracted from a source.
type WordItem struct {
	English    string `json:"english"`
	Indonesian string `json:"indonesian"`
	Note       string `json:"note"`
}

// BulkImportResponse is the result of extracting vocabulary from a URL or text.
type BulkImportResponse struct {
	Words []WordItem `json:"words"`
}

// Stats summarises memorization progress.
type Stats struct {
	Total     int `json:"total"`
	Memorized int `json:"memorized"`
	Progress  int `json:"progress"` // percent, rounded
}
