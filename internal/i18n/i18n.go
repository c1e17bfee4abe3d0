// Package i18n loads the embedded message catalogs and localizes user-facing strings.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "id"

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message IDs for one language.
type Translator struct {
	lang      string
	localizer *goi18n.Localizer
}

// Languages returns the language codes with an embedded catalog.
func Languages() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json"))
	}
	return out
}

// New builds a Translator for lang. Unknown message IDs fall back to the
// default language and then to the ID itself.
func New(lang string) (*Translator, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("i18n: invalid language %q: %w", lang, err)
	}

	bundle := goi18n.NewBundle(language.Indonesian)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, code := range Languages() {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/active."+code+".json"); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", code, err)
		}
	}

	return &Translator{
		lang:      lang,
		localizer: goi18n.NewLocalizer(bundle, lang, DefaultLanguage),
	}, nil
}

// MustNew is New for static languages; it panics on error.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Lang returns the requested language code.
func (t *Translator) Lang() string {
	return t.lang
}

// T returns the localized message for id, or id itself when missing.
func (t *Translator) T(id string) string {
	if t == nil || t.localizer == nil {
		return id
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil {
		slog.Debug("i18n: missing translation", slog.String("id", id), slog.String("lang", t.lang))
		return id
	}
	return msg
}

// Messages returns every known message for the view layer.
func (t *Translator) Messages() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k] = t.T(k)
	}
	return out
}
