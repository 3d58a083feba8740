package decode

import (
	"fmt"
	"math"

	"github.com/zjrosen/starforge/internal/data/entities"
)

// record wraps one raw decoded table and reports shape problems as
// SchemaErrors pointing at the owning file.
type record struct {
	fields map[string]any
	path   string
	// label identifies the record in error messages: its id when known,
	// otherwise its position in the file.
	label string
}

func (r record) schemaErr(format string, args ...any) error {
	return &SchemaError{
		Path:    r.path,
		Message: fmt.Sprintf("%s: %s", r.label, fmt.Sprintf(format, args...)),
	}
}

// id extracts the required stable identifier.
func (r *record) id() (string, error) {
	raw, ok := r.fields["id"]
	if !ok {
		return "", r.schemaErr("missing required field %q", "id")
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", r.schemaErr("field %q must be a non-empty string", "id")
	}
	r.label = s
	return s, nil
}

func (r record) str(key string) (string, error) {
	raw, ok := r.fields[key]
	if !ok {
		return "", r.schemaErr("missing required field %q", key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", r.schemaErr("field %q must be a non-empty string", key)
	}
	return s, nil
}

func (r record) optStr(key string) (string, error) {
	raw, ok := r.fields[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", r.schemaErr("field %q must be a string", key)
	}
	return s, nil
}

// integer accepts the numeric representations the TOML and YAML decoders
// produce for whole numbers. Numeric fields are always required: an absent
// key is a schema problem for the owning file, never an implicit zero.
func (r record) integer(key string) (int, error) {
	raw, ok := r.fields[key]
	if !ok {
		return 0, r.schemaErr("missing required field %q", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, r.schemaErr("field %q must be an integer (got %v)", key, v)
		}
		return int(v), nil
	default:
		return 0, r.schemaErr("field %q must be an integer (got %T)", key, raw)
	}
}

func (r record) float(key string) (float64, error) {
	raw, ok := r.fields[key]
	if !ok {
		return 0, r.schemaErr("missing required field %q", key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, r.schemaErr("field %q must be a number (got %T)", key, raw)
	}
}

// text extracts a localized field. Accepted shapes: a plain string (English
// shorthand) or a per-locale mapping with a required "en" key.
func (r record) text(key string, required bool) (entities.LocalizedText, error) {
	raw, ok := r.fields[key]
	if !ok {
		if required {
			return entities.LocalizedText{}, r.schemaErr("missing required field %q", key)
		}
		return entities.LocalizedText{}, nil
	}

	switch v := raw.(type) {
	case string:
		if v == "" && required {
			return entities.LocalizedText{}, r.schemaErr("field %q must not be empty", key)
		}
		return entities.Plain(v), nil
	case map[string]any:
		return r.textFromMap(key, v)
	case map[any]any:
		// Older YAML shapes decode map keys as any.
		converted := make(map[string]any, len(v))
		for mk, mv := range v {
			sk, ok := mk.(string)
			if !ok {
				return entities.LocalizedText{}, r.schemaErr("field %q has a non-string locale key", key)
			}
			converted[sk] = mv
		}
		return r.textFromMap(key, converted)
	default:
		return entities.LocalizedText{}, r.schemaErr("field %q must be a string or a locale mapping (got %T)", key, raw)
	}
}

func (r record) textFromMap(key string, m map[string]any) (entities.LocalizedText, error) {
	var text entities.LocalizedText
	for locale, raw := range m {
		s, ok := raw.(string)
		if !ok {
			return entities.LocalizedText{}, r.schemaErr("field %q locale %q must be a string", key, locale)
		}
		switch entities.Locale(locale) {
		case entities.LocaleEN:
			text.En = s
		case entities.LocaleRU:
			text.Ru = s
		default:
			return entities.LocalizedText{}, r.schemaErr("field %q has unknown locale %q", key, locale)
		}
	}
	if text.En == "" {
		return entities.LocalizedText{}, r.schemaErr("field %q is missing the required %q locale", key, entities.LocaleEN)
	}
	return text, nil
}
