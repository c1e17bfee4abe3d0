package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kamus/internal/annotate"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/storage"
	"github.com/starford/kamus/internal/store"
	"github.com/starford/kamus/internal/vocab"
	"github.com/starford/kamus/internal/web"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	UI      UIConfig          `yaml:"ui"`
	Storage StorageConfig     `yaml:"storage"`
	AI      AIConfig          `yaml:"ai"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.AI.Validate(); err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel     slog.Level    `yaml:"log_level"`
	Language     string        `yaml:"language"`
	HTTP         HTTPConfig    `yaml:"http"`
	NewMarkerTTL time.Duration `yaml:"new_marker_ttl"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Language, validation.Required, validation.In(toAny(i18n.Languages())...)),
		validation.Field(&c.NewMarkerTTL, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Theme, validation.Required, validation.In(toAny(web.Themes())...)),
	)
}

// StorageConfig selects where the entry list is persisted.
//
// For the file driver Path is a directory holding <key>.json; for sqlite
// it is the database file.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Key    string `yaml:"key"`
	Watch  bool   `yaml:"watch"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(storage.DriverFile, storage.DriverSQLite)),
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Key, validation.Required),
	)
}

// AIConfig configures the annotation backend. An empty APIKey is looked
// up in the OS keyring under the provider name.
type AIConfig struct {
	Provider       string        `yaml:"provider"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	MaxSourceChars int           `yaml:"max_source_chars"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(annotate.ProviderGemini, annotate.ProviderOpenAI)),
		validation.Field(&c.FetchTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxSourceChars, validation.Min(0)),
	)
}

// Options converts the section to backend options.
func (c *AIConfig) Options() annotate.Options {
	return annotate.Options{
		Provider:     c.Provider,
		APIKey:       c.APIKey,
		Model:        c.Model,
		BaseURL:      c.BaseURL,
		FetchTimeout: c.FetchTimeout,
		MaxChars:     c.MaxSourceChars,
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:     slog.LevelInfo,
			Language:     i18n.DefaultLanguage,
			NewMarkerTTL: vocab.DefaultNewMarkerTTL,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		UI: UIConfig{
			Theme: web.ThemeSlate,
		},
		Storage: StorageConfig{
			Driver: storage.DriverFile,
			Path:   "./data",
			Key:    store.DefaultKey,
			Watch:  true,
		},
		AI: AIConfig{
			Provider:       annotate.ProviderGemini,
			FetchTimeout:   25 * time.Second,
			MaxSourceChars: 12000,
		},
	}
}
