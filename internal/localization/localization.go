// Package localization provides the label catalogue used in notifications.
// Catalogues are JSON files named by language code (e.g. "th.json"); the
// default set is embedded in the binary.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// FallbackLanguage is consulted when a key is missing in the requested language.
const FallbackLanguage = "th"

//go:embed locales/*.json
var embedded embed.FS

// Localizer manages the translations for the application.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer loads every "<lang>.json" file found in dir of fsys.
func NewLocalizer(fsys fs.FS, dir string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	return l, nil
}

// Default returns a Localizer backed by the embedded catalogues.
func Default() *Localizer {
	l, err := NewLocalizer(embedded, "locales")
	if err != nil {
		// the embedded catalogue is part of the build
		panic(err)
	}
	return l
}

// HasLanguage reports whether a catalogue for lang was loaded.
func (l *Localizer) HasLanguage(lang string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.translations[lang]
	return ok
}

// GetString returns the localized string for a given key and language.
// If the language or the key is not found, it returns the key itself as a fallback.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != FallbackLanguage {
		if fallback, ok := l.translations[FallbackLanguage]; ok {
			if value, ok := fallback[key]; ok {
				return value
			}
		}
	}

	return key
}

// Lang binds a Localizer to one language.
type Lang struct {
	l    *Localizer
	lang string
}

// For returns a view of the catalogue in the given language.
func (l *Localizer) For(lang string) Lang {
	return Lang{l: l, lang: lang}
}

// T returns the label for key.
func (b Lang) T(key string) string {
	return b.l.GetString(b.lang, key)
}

// F formats the label for key with args.
func (b Lang) F(key string, args ...any) string {
	return fmt.Sprintf(b.l.GetString(b.lang, key), args...)
}
