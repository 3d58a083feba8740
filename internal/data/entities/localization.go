// Package entities defines the game data records produced by the load
// pipeline. Records are plain values: they are created by the decoder,
// rewritten by the merge engine, and never mutated after a snapshot is
// published.
package entities

// Locale identifies a display language.
type Locale string

const (
	// LocaleEN is the required base locale for all display text.
	LocaleEN Locale = "en"
	// LocaleRU is an optional secondary locale.
	LocaleRU Locale = "ru"
)

// Locales lists every locale the pipeline knows about, base locale first.
var Locales = []Locale{LocaleEN, LocaleRU}

// LocalizedText holds display text per locale. En is always present on
// validated records; other locales are optional and fall back to En.
type LocalizedText struct {
	En string `json:"en"`
	Ru string `json:"ru,omitempty"`
}

// Get resolves the text for the requested locale, falling back to English.
func (t LocalizedText) Get(locale Locale) string {
	if locale == LocaleRU && t.Ru != "" {
		return t.Ru
	}
	return t.En
}

// Has reports whether the locale has its own translation.
func (t LocalizedText) Has(locale Locale) bool {
	switch locale {
	case LocaleEN:
		return t.En != ""
	case LocaleRU:
		return t.Ru != ""
	default:
		return false
	}
}

// Plain builds a LocalizedText from a bare string (English only). The
// decoder uses it for the plain-string display-name shorthand.
func Plain(s string) LocalizedText {
	return LocalizedText{En: s}
}
