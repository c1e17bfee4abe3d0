package internal

import (
	"log/slog"

	"github.com/starford/kamus/internal/annotate"
	"github.com/starford/kamus/internal/store"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	logger    *slog.Logger
	observers []store.Observer
	keyFunc   annotate.KeyFunc
	model     annotate.Model
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithObserver adds a store mutation observer.
func WithObserver(o store.Observer) Option {
	return func(a *application) {
		a.observers = append(a.observers, o)
	}
}

// WithKeyFunc overrides the keyring lookup for the AI API key.
func WithKeyFunc(fn annotate.KeyFunc) Option {
	return func(a *application) {
		a.keyFunc = fn
	}
}

// WithModel replaces the AI backend built from the config.
func WithModel(m annotate.Model) Option {
	return func(a *application) {
		a.model = m
	}
}
