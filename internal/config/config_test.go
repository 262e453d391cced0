package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_API_KEY", "GEMINI_API_KEY",
		"CONFLUENCE_URL", "CONFLUENCE_USERNAME", "CONFLUENCE_API_TOKEN",
		"SCENGEN_OUTPUT_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "scengen", cfg.Name)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, "./output", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().LLM.Model, cfg.LLM.Model)
}

func TestLoad_ParsesYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("llm:\n  model: gemini-2.0-flash\n  timeout: 30s\noutput:\n  dir: /tmp/scenarios\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "/tmp/scenarios", cfg.Output.Dir)
	assert.Equal(t, 30*time.Second, cfg.GetLLMTimeout())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY wins over GOOGLE_API_KEY", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_API_KEY", "gemini-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	})

	t.Run("GOOGLE_API_KEY applies when GEMINI_API_KEY unset", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "google-key", cfg.LLM.APIKey)
	})

	t.Run("Confluence credentials", func(t *testing.T) {
		t.Setenv("CONFLUENCE_URL", "https://example.atlassian.net/wiki")
		t.Setenv("CONFLUENCE_USERNAME", "qa@example.com")
		t.Setenv("CONFLUENCE_API_TOKEN", "secret")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://example.atlassian.net/wiki", cfg.Confluence.BaseURL)
		assert.Equal(t, "qa@example.com", cfg.Confluence.Username)
		assert.Equal(t, "secret", cfg.Confluence.APIToken)
	})

	t.Run("output dir", func(t *testing.T) {
		t.Setenv("SCENGEN_OUTPUT_DIR", "/var/scenarios")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/var/scenarios", cfg.Output.Dir)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate())

	cfg.LLM.APIKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundtrip(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.LLM.Model = "gemini-2.0-flash"
	cfg.Output.Dir = "/data/out"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.LLM.Model, loaded.LLM.Model)
	assert.Equal(t, cfg.Output.Dir, loaded.Output.Dir)
}

func TestTimeoutFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "garbage"
	cfg.Confluence.Timeout = ""

	assert.Equal(t, 300*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, 60*time.Second, cfg.GetConfluenceTimeout())
}
