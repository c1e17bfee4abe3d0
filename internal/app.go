package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/kamus/internal/annotate"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/secret"
	"github.com/starford/kamus/internal/storage"
	"github.com/starford/kamus/internal/store"
	"github.com/starford/kamus/internal/vocab"
)

// App holds the components shared by the server, the CLI commands and the
// MCP server.
type App struct {
	Config  *Config
	Logger  *slog.Logger
	Msgs    *i18n.Translator
	Storage storage.Provider
	Store   *store.Store
	Service *vocab.Service
}

// NewLogger builds the JSON logger used by the server.
func NewLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// NewApp opens storage, loads the list and wires the vocabulary service.
func NewApp(opts ...Option) (*App, error) {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := a.logger
	if logger == nil {
		logger = NewLogger(cfg)
	}

	msgs, err := i18n.New(cfg.App.Language)
	if err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}

	provider, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	st := store.New(provider, cfg.Storage.Key, msgs,
		store.WithLogger(logger),
		store.WithObserver(func(ev store.Event) {
			for _, o := range a.observers {
				o(ev)
			}
		}),
	)
	st.Load()

	model := a.model
	if model == nil {
		keyFunc := a.keyFunc
		if keyFunc == nil {
			keyFunc = keyLookup(cfg.AI)
		}
		model = annotate.NewLazyModel(cfg.AI.Options(), keyFunc, logger)
	}
	ai := annotate.NewClient(model, msgs, logger)

	svc := vocab.NewService(st, ai,
		vocab.WithLogger(logger),
		vocab.WithNewMarkerTTL(cfg.App.NewMarkerTTL),
	)

	logger.Info("Vocabulary loaded",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("path", cfg.Storage.Path),
		slog.Int("entries", len(st.List())))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Msgs:    msgs,
		Storage: provider,
		Store:   st,
		Service: svc,
	}, nil
}

// Close waits for background translations and closes storage.
func (a *App) Close() error {
	a.Service.Wait()
	return a.Storage.Close()
}

// keyLookup returns the configured key, falling back to the OS keyring
// entry of the provider.
func keyLookup(ai AIConfig) annotate.KeyFunc {
	return func() (string, error) { return secret.Resolve(ai.APIKey, ai.Provider) }
}
