package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_PATH", "AUTH_MODE", "API_KEY", "TOKEN_SECRET", "LANGUAGE", "SEED_DATABASE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "none", cfg.AuthMode)
	assert.Equal(t, "ar", cfg.Language)
}

func TestLoadConfig_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: \"9000\"\nauth_mode: token\ntoken_secret: abc\nlanguage: en\nseed: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "token", cfg.AuthMode)
	assert.Equal(t, "abc", cfg.TokenSecret)
	assert.Equal(t, "en", cfg.Language)
	assert.True(t, cfg.Seed)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: \"9000\"\n")
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLoadConfig_MissingFileIsFine(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
}

func TestLoadConfig_TokenModeRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "token")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidAuthMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "cognito")

	_, err := LoadConfig("")
	assert.Error(t, err)
}
