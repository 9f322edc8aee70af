package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	// No config.yaml exists in the test working directory, so the
	// environment (here: nothing) plus defaults apply.
	t.Setenv("AI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
	assert.False(t, cfg.AI.IsAvailable())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_API_KEY", "secret")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.True(t, cfg.AI.IsAvailable())
}

func TestLoad_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "conventional-key")

	cfg, err := Load("dev")
	require.NoError(t, err)
	assert.Equal(t, "conventional-key", cfg.AI.APIKey)
}

func TestAIConfig_IsAvailable(t *testing.T) {
	assert.False(t, (&AIConfig{}).IsAvailable())
	assert.True(t, (&AIConfig{APIKey: "k"}).IsAvailable())
	// Local endpoints often need no key at all.
	assert.True(t, (&AIConfig{BaseURL: "http://localhost:11434/v1"}).IsAvailable())
}

func TestLoadDocumentation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")
	content := `
orders:
  description: Customer orders
  columns:
    status: Fulfillment state
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	docs, err := LoadDocumentation(path)
	require.NoError(t, err)
	assert.Equal(t, "Customer orders", docs.TableDescription("orders"))
	assert.Equal(t, "Fulfillment state", docs.ColumnDescription("orders", "status"))
}

func TestLoadDocumentation_MissingFile(t *testing.T) {
	_, err := LoadDocumentation(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDocumentation_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orders: [not: a: doc"), 0o644))

	_, err := LoadDocumentation(path)
	assert.Error(t, err)
}
