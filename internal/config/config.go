// Package config loads server configuration from a YAML file with
// environment-variable overrides.
//
// The YAML file holds the non-secret shape of the deployment (ports, hosts,
// model names). Secrets (tokens, OAuth credentials, the JWT secret) are
// expected to come from the environment — the YAML keys exist so local dev
// can keep everything in one file, but env vars always win.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "DEVDOCS_CONFIG"

	portEnv = "PORT"

	csAPIKeyEnv          = "CONTENTSTACK_API_KEY"
	csManagementTokenEnv = "CONTENTSTACK_MANAGEMENT_TOKEN"
	csEnvironmentEnv     = "CONTENTSTACK_ENVIRONMENT"

	jwtSecretEnv          = "JWT_SECRET"
	googleClientIDEnv     = "GOOGLE_CLIENT_ID"
	googleClientSecretEnv = "GOOGLE_CLIENT_SECRET"
	googleCallbackURLEnv  = "GOOGLE_CALLBACK_URL"

	chatAPIKeyEnv = "GROQ_API_KEY"

	auditDBPathEnv = "AUDIT_DB_PATH"
)

// Config holds the full server configuration.
type Config struct {
	Port         int                `yaml:"port"`
	Contentstack ContentstackConfig `yaml:"contentstack"`
	Auth         AuthConfig         `yaml:"auth"`
	Chat         ChatConfig         `yaml:"chat"`
	Audit        AuditConfig        `yaml:"audit"`
}

// ContentstackConfig describes how to reach the CMS Management API.
type ContentstackConfig struct {
	APIHost         string `yaml:"apiHost"`
	APIKey          string `yaml:"apiKey"`
	ManagementToken string `yaml:"managementToken"`
	Environment     string `yaml:"environment"` // publish target
	Locale          string `yaml:"locale"`
}

// AuthConfig wires the Google OAuth pair and the session signing secret.
type AuthConfig struct {
	JWTSecret          string `yaml:"jwtSecret"`
	GoogleClientID     string `yaml:"googleClientId"`
	GoogleClientSecret string `yaml:"googleClientSecret"`
	GoogleCallbackURL  string `yaml:"googleCallbackUrl"`
}

// ChatConfig defines how to contact the assistant's LLM endpoint.
// The endpoint must speak the OpenAI chat-completions surface (Groq does).
type ChatConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// AuditConfig locates the local engagement audit database.
type AuditConfig struct {
	DBPath string `yaml:"dbPath"`
}

// Load reads the YAML file named by DEVDOCS_CONFIG (optional — defaults apply
// if unset or missing), applies env overrides, and validates the result.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port: 8080,
		Contentstack: ContentstackConfig{
			APIHost: "api.contentstack.io",
			Locale:  "en-us",
		},
		Chat: ChatConfig{
			Endpoint: "https://api.groq.com/openai/v1/chat/completions",
			Model:    "llama-3.3-70b-versatile",
		},
		Audit: AuditConfig{
			DBPath: "data/devdocs-audit.db",
		},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Port = port
		}
	}
	overrideString(&c.Contentstack.APIKey, csAPIKeyEnv)
	overrideString(&c.Contentstack.ManagementToken, csManagementTokenEnv)
	overrideString(&c.Contentstack.Environment, csEnvironmentEnv)
	overrideString(&c.Auth.JWTSecret, jwtSecretEnv)
	overrideString(&c.Auth.GoogleClientID, googleClientIDEnv)
	overrideString(&c.Auth.GoogleClientSecret, googleClientSecretEnv)
	overrideString(&c.Auth.GoogleCallbackURL, googleCallbackURLEnv)
	overrideString(&c.Chat.APIKey, chatAPIKeyEnv)
	overrideString(&c.Audit.DBPath, auditDBPathEnv)
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// validate checks the settings the server cannot run without. Auth and chat
// are allowed to be unconfigured — those route groups are simply disabled —
// but the CMS credentials are load-bearing for everything.
func (c *Config) validate() error {
	if c.Contentstack.APIKey == "" {
		return fmt.Errorf("config: %s is required", csAPIKeyEnv)
	}
	if c.Contentstack.ManagementToken == "" {
		return fmt.Errorf("config: %s is required", csManagementTokenEnv)
	}
	if c.Contentstack.Environment == "" {
		return fmt.Errorf("config: %s is required", csEnvironmentEnv)
	}
	return nil
}

// AuthEnabled reports whether the OAuth + session routes can be registered.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != "" && c.Auth.GoogleClientID != "" && c.Auth.GoogleClientSecret != ""
}

// ChatEnabled reports whether the assistant endpoint can be registered.
func (c *Config) ChatEnabled() bool {
	return c.Chat.APIKey != ""
}
