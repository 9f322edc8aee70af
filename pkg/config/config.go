// Package config loads engine configuration from config.yaml and the
// environment.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// Config holds all configuration for dataquill-engine.
// Values come from config.yaml with environment variable overrides; secrets
// (API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// DocumentationFile optionally points at a YAML file with a table/column
	// documentation overlay applied whenever a datasource is connected.
	DocumentationFile string `yaml:"documentation_file" env:"DOCUMENTATION_FILE" env-default:""`

	// AI holds the remote generation endpoint configuration.
	AI AIConfig `yaml:"ai"`
}

// AIConfig configures the remote completion service. When not available the
// engine runs on the pattern strategy alone.
type AIConfig struct {
	// Provider selects the client: "openai" (default, also covers
	// OpenAI-compatible endpoints via BaseURL) or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"AI_BASE_URL" env-default:""`
	Model    string `yaml:"model" env:"AI_MODEL" env-default:"gpt-3.5-turbo"`
	APIKey   string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if a remote completion service is configured.
// A bare BaseURL counts: local endpoints often need no key.
func (c *AIConfig) IsAvailable() bool {
	return c.APIKey != "" || c.BaseURL != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is fine; the environment alone applies.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	}

	// OPENAI_API_KEY is the conventional variable; honor it when the
	// engine-specific one is unset.
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// LoadDocumentation parses a YAML documentation overlay file.
func LoadDocumentation(path string) (models.Documentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documentation file: %w", err)
	}

	var docs models.Documentation
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse documentation file: %w", err)
	}
	return docs, nil
}
