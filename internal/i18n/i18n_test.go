package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT_ResolvesPerLanguage(t *testing.T) {
	assert.Equal(t, "متصل بالخادم", T(Arabic, MsgConnected))
	assert.Equal(t, "connected to backend", T(English, MsgConnected))
}

func TestT_FallsBackToArabicThenKey(t *testing.T) {
	assert.Equal(t, T(Arabic, MsgConnected), T(Lang("fr"), MsgConnected))
	assert.Equal(t, "no_such_key", T(English, "no_such_key"))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "rtl", Arabic.Direction())
	assert.Equal(t, "ltr", English.Direction())
}

func TestPreference_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, Default, LoadPreference(dir))

	require.NoError(t, SavePreference(dir, English))
	assert.Equal(t, English, LoadPreference(dir))

	require.NoError(t, SavePreference(dir, Arabic))
	assert.Equal(t, Arabic, LoadPreference(dir))
}

func TestLoadPreference_GarbageDefaultsToArabic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SavePreference(dir, Lang("klingon")))
	assert.Equal(t, Default, LoadPreference(dir))
}
