package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLanguage is served when an unknown locale is requested.
const DefaultLanguage = "en"

// SupportedLanguages lists every locale shipped with the site.
var SupportedLanguages = []string{"en", "ru", "uz"}

var dictionaries = map[string]json.RawMessage{}

func init() {
	for _, lang := range SupportedLanguages {
		b, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.json", lang))
		if err != nil {
			panic(fmt.Sprintf("i18n: missing embedded locale %s: %v", lang, err))
		}
		if !json.Valid(b) {
			panic(fmt.Sprintf("i18n: locale %s is not valid JSON", lang))
		}
		dictionaries[lang] = json.RawMessage(b)
	}
}

// IsSupported reports whether lang ships with the site.
func IsSupported(lang string) bool {
	_, ok := dictionaries[lang]
	return ok
}

// Translations returns the dictionary for lang, falling back to the default
// language for anything unknown.
func Translations(lang string) json.RawMessage {
	if d, ok := dictionaries[lang]; ok {
		return d
	}
	return dictionaries[DefaultLanguage]
}
