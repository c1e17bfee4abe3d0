// Package annotate asks a generative model to translate words and extract
// vocabulary from a URL or a block of text.
package annotate

import "context"

// Schema is a backend-neutral description of the JSON the model must return.
type Schema struct {
	Name        string
	Type        string // "object", "array" or "string"
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

// Request is one round trip to a model.
type Request struct {
	Prompt string
	Schema *Schema
	// WebAccess asks the backend to let the model read URL.
	WebAccess bool
	URL       string
}

// Model generates a JSON document for a Request.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var translationSchema = &Schema{
	Name: "translation",
	Type: "object",
	Properties: map[string]*Schema{
		"translation": {Type: "string", Description: "Terjemahan kata ke Bahasa Indonesia."},
		"note":        {Type: "string", Description: "Keterangan singkat atau contoh penggunaan dalam Bahasa Indonesia."},
	},
	Required: []string{"translation", "note"},
}

var vocabularySchema = &Schema{
	Name: "vocabulary",
	Type: "object",
	Properties: map[string]*Schema{
		"words": {
			Type:        "array",
			Description: "Daftar 5 sampai 10 kosakata penting.",
			Items: &Schema{
				Type: "object",
				Properties: map[string]*Schema{
					"english":    {Type: "string", Description: "Kata atau frasa Bahasa Inggris."},
					"indonesian": {Type: "string", Description: "Terjemahan Bahasa Indonesia."},
					"note":       {Type: "string", Description: "Keterangan singkat atau contoh kalimat dalam Bahasa Indonesia."},
				},
				Required: []string{"english", "indonesian", "note"},
			},
		},
	},
	Required: []string{"words"},
}
