package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw json.RawMessage) map[string]map[string]string {
	t.Helper()
	var dict map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &dict))
	return dict
}

func TestAllLocalesShipWidgetStrings(t *testing.T) {
	for _, lang := range SupportedLanguages {
		assert.True(t, IsSupported(lang), lang)
		dict := decode(t, Translations(lang))
		for _, key := range []string{"title", "guestName", "justNow", "minutesAgo", "hoursAgo", "daysAgo"} {
			assert.NotEmpty(t, dict["comments"][key], "%s: comments.%s", lang, key)
		}
		for _, key := range []string{"home", "services", "pricing", "contact"} {
			assert.NotEmpty(t, dict["nav"][key], "%s: nav.%s", lang, key)
		}
	}
}

func TestUnknownLocaleFallsBackToEnglish(t *testing.T) {
	assert.False(t, IsSupported("de"))
	assert.Equal(t, string(Translations(DefaultLanguage)), string(Translations("de")))
	assert.Equal(t, string(Translations(DefaultLanguage)), string(Translations("")))
}

func TestLocalesAreActuallyTranslated(t *testing.T) {
	en := decode(t, Translations("en"))
	ru := decode(t, Translations("ru"))
	uz := decode(t, Translations("uz"))

	assert.NotEqual(t, en["comments"]["guestName"], ru["comments"]["guestName"])
	assert.NotEqual(t, en["comments"]["justNow"], uz["comments"]["justNow"])
}
