package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options selects and configures a Model backend.
type Options struct {
	Provider     string
	APIKey       string
	Model        string
	BaseURL      string
	FetchTimeout time.Duration
	MaxChars     int
}

// NewModel builds the backend named by opts.Provider.
func NewModel(ctx context.Context, opts Options, logger *slog.Logger) (Model, error) {
	switch opts.Provider {
	case ProviderGemini, "":
		return NewGemini(ctx, opts.APIKey, opts.Model, opts.BaseURL)
	case ProviderOpenAI:
		return NewOpenAI(opts.APIKey, opts.Model, opts.BaseURL, NewFetcher(opts.FetchTimeout, opts.MaxChars), logger), nil
	default:
		return nil, fmt.Errorf("annotate: unknown provider %q", opts.Provider)
	}
}

// KeyFunc looks up an API key that was not configured explicitly.
type KeyFunc func() (string, error)

type lazyModel struct {
	opts   Options
	key    KeyFunc
	logger *slog.Logger

	mu    sync.Mutex
	model Model
}

// NewLazyModel returns a Model that builds its backend on first use. A
// failed build is retried on the next call, so a key stored after startup
// is picked up without a restart.
func NewLazyModel(opts Options, key KeyFunc, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &lazyModel{opts: opts, key: key, logger: logger}
}

func (l *lazyModel) Generate(ctx context.Context, req Request) (string, error) {
	m, err := l.backend(ctx)
	if err != nil {
		return "", err
	}
	return m.Generate(ctx, req)
}

func (l *lazyModel) backend(ctx context.Context) (Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		return l.model, nil
	}

	opts := l.opts
	if opts.APIKey == "" && l.key != nil {
		key, err := l.key()
		if err != nil {
			return nil, fmt.Errorf("annotate: api key for %s: %w", opts.Provider, err)
		}
		opts.APIKey = key
	}
	m, err := NewModel(ctx, opts, l.logger)
	if err != nil {
		return nil, err
	}
	l.logger.Info("annotate: backend ready", slog.String("provider", opts.Provider))
	l.model = m
	return m, nil
}
