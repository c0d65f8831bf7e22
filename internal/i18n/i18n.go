// Package i18n holds the user-facing message catalogs. Arabic is the
// default product language; the stored preference drives text direction
// for the whole UI.
package i18n

import (
	"os"
	"path/filepath"
	"strings"
)

type Lang string

const (
	Arabic  Lang = "ar"
	English Lang = "en"
)

const Default = Arabic

// preferenceFile is the single persisted key for the language choice.
const preferenceFile = "language"

// Direction returns the document text direction for the language.
func (l Lang) Direction() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

func parse(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en":
		return English
	case "ar":
		return Arabic
	default:
		return Default
	}
}

// T resolves a message key for the language, falling back to Arabic and
// then to the key itself so a missing entry never renders as empty text.
func T(lang Lang, key string) string {
	if catalog, ok := catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[Default][key]; ok {
		return msg
	}
	return key
}

// LoadPreference reads the persisted language from dir, defaulting to
// Arabic when the file is absent or unreadable.
func LoadPreference(dir string) Lang {
	raw, err := os.ReadFile(filepath.Join(dir, preferenceFile))
	if err != nil {
		return Default
	}
	return parse(string(raw))
}

// SavePreference writes the language choice under dir.
func SavePreference(dir string, lang Lang) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, preferenceFile), []byte(string(lang)), 0o644)
}
