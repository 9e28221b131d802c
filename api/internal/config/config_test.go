package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir into an empty directory so a developer's .env does not leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.Equal(t, 800, cfg.ImageMaxWidth)
	assert.Equal(t, 80, cfg.ImageQuality)
	assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "fail-safe", cfg.ValidationOnError)
	assert.Equal(t, "fail-loud", cfg.IdentificationOnError)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("MAX_FILES", "9")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, ,http://example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://example.com"}, cfg.CORSOrigins)
}

func TestLoadReadsDotEnv(t *testing.T) {
	isolate(t)
	t.Setenv("GOOGLE_API_KEY", "")
	// godotenv never overrides variables that are already set, so unset it for the process.
	require.NoError(t, os.Unsetenv("GOOGLE_API_KEY"))
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("GOOGLE_API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GOOGLE_API_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.GoogleAPIKey)
}
