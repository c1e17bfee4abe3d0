package annotate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

const openAISystemPrompt = "Anda adalah asisten kamus Bahasa Inggris-Indonesia. Jawab hanya dengan JSON yang sesuai skema."

// OpenAI is a Model backed by an OpenAI-compatible chat completion API.
// The API cannot browse, so web access is emulated by fetching the page
// and inlining its text.
type OpenAI struct {
	client  *openai.Client
	model   string
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewOpenAI creates an OpenAI backend. baseURL is optional.
func NewOpenAI(apiKey, model, baseURL string, fetcher *Fetcher, logger *slog.Logger) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if fetcher == nil {
		fetcher = NewFetcher(0, 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Generate runs one chat completion constrained to req.Schema.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.WebAccess && req.URL != "" {
		text, err := o.fetcher.Text(ctx, req.URL)
		if err != nil {
			return "", fmt.Errorf("openai: %w", err)
		}
		o.logger.Debug("openai: inlined page text", slog.String("url", req.URL), slog.Int("chars", len(text)))
		prompt += fmt.Sprintf(pageContentSuffix, text)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if req.Schema != nil {
		def := toJSONSchema(req.Schema)
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: &def,
				Strict: true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func toJSONSchema(s *Schema) jsonschema.Definition {
	def := jsonschema.Definition{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case "object":
		def.Type = jsonschema.Object
		def.AdditionalProperties = false
	case "array":
		def.Type = jsonschema.Array
	default:
		def.Type = jsonschema.String
	}
	if len(s.Properties) > 0 {
		def.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, p := range s.Properties {
			def.Properties[name] = toJSONSchema(p)
		}
	}
	if s.Items != nil {
		items := toJSONSchema(s.Items)
		def.Items = &items
	}
	return def
}
