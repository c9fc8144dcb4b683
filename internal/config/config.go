// Package config loads leadcap configuration from a YAML file, an optional
// .env file and LEADCAP_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "leadcap.yaml"

// Config holds all leadcap configuration.
type Config struct {
	// External lead capture API
	API APIConfig `yaml:"api"`

	// Presentation
	UI UIConfig `yaml:"ui"`

	// Web page server (leadcap serve)
	Server ServerConfig `yaml:"server"`

	// Diagnostic logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the client for GET /leads and POST /lead.
type APIConfig struct {
	BaseURL   string  `yaml:"base_url"`
	APIKey    string  `yaml:"api_key"`
	Timeout   string  `yaml:"timeout"`    // per request, e.g. "30s"
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int     `yaml:"burst"`
	UserAgent string  `yaml:"user_agent"`
}

// UIConfig configures user-facing text and colors.
type UIConfig struct {
	Language string `yaml:"language"` // pt-BR, en
	Theme    string `yaml:"theme"`    // light, dark, auto
}

// ServerConfig configures the web page server.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	ReadTimeout string `yaml:"read_timeout"`
}

// SupportedLanguages lists the message catalogs shipped with leadcap.
var SupportedLanguages = []string{"pt-BR", "en"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:8000",
			Timeout:   "30s",
			RateLimit: 0,
			Burst:     1,
			UserAgent: "leadcap/1.0",
		},
		UI: UIConfig{
			Language: "pt-BR",
			Theme:    "light",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: "15s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file, then a .env file next to the
// working directory, then the environment. A missing YAML or .env file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// loadDotEnv populates unset environment variables from a dotenv file.
// Variables already present in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies LEADCAP_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LEADCAP_API_BASE"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LEADCAP_API_KEY"); v != "" {
		c.API.APIKey = v
	}
	if v := os.Getenv("LEADCAP_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("LEADCAP_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.API.RateLimit = f
		}
	}
	if v := os.Getenv("LEADCAP_LANG"); v != "" {
		c.UI.Language = v
	}
	if os.Getenv("LEADCAP_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
	}
	if v := os.Getenv("LEADCAP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LEADCAP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LEADCAP_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// GetAPITimeout returns the per-request API timeout.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetReadTimeout returns the web server read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.API.BaseURL, "/")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http or https URL, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", c.API.BaseURL)
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0")
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be >= 1 when api.rate_limit is set")
	}

	validLanguage := false
	for _, l := range SupportedLanguages {
		if c.UI.Language == l {
			validLanguage = true
			break
		}
	}
	if !validLanguage {
		return fmt.Errorf("invalid ui.language: %s (valid: %v)", c.UI.Language, SupportedLanguages)
	}

	switch c.UI.Theme {
	case "light", "dark", "auto":
	default:
		return fmt.Errorf("invalid ui.theme: %s (valid: light, dark, auto)", c.UI.Theme)
	}

	return c.Logging.Validate()
}
