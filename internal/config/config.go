package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server config
	Server ServerConfig `yaml:"server"`

	// CSRF config
	Security SecurityConfig `yaml:"security"`

	// chat-completion provider config
	Provider ProviderConfig `yaml:"provider"`

	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	Environment  string        `yaml:"environment"` // development, staging, production
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// SecurityConfig holds CSRF settings for the HTML form.
type SecurityConfig struct {
	CSRFKey            string   `yaml:"-"`
	CSRFTrustedOrigins []string `yaml:"csrf_trusted_origins"`
	SecureCookies      bool     `yaml:"-"` // true in production
}

// ProviderConfig holds the external chat-completion API settings.
type ProviderConfig struct {
	APIKey      string        `yaml:"-"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	// AppURL and AppTitle identify this app to the provider.
	AppURL   string `yaml:"app_url"`
	AppTitle string `yaml:"app_title"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// HasAPIKey reports whether the provider credential is set.
func (p ProviderConfig) HasAPIKey() bool {
	return p.APIKey != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Defaults returns the built-in configuration before any file or env overrides.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":8080",
			Environment:  "development",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Provider: ProviderConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "deepseek/deepseek-chat-v3.1:free",
			MaxTokens:   800,
			Temperature: 0.1,
			Timeout:     60 * time.Second,
			AppURL:      "http://localhost:3000",
			AppTitle:    "Spam Link Checker",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// the .env file and the process environment, in increasing precedence.
// An empty path falls back to CONFIG_FILE.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.Security.SecureCookies = cfg.IsProduction()

	// Development gets a throwaway key so the form works out of the box
	if cfg.Security.CSRFKey == "" && !cfg.IsProduction() {
		key, err := randomKey(32)
		if err != nil {
			return nil, fmt.Errorf("generate CSRF key: %w", err)
		}
		cfg.Security.CSRFKey = key
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error

	c.Server.Address = getEnvOrDefault("SERVER_ADDRESS", c.Server.Address)
	c.Server.Environment = getEnvOrDefault("APP_ENV", c.Server.Environment)
	c.Server.ReadTimeout = getDurationOrDefault("SERVER_READ_TIMEOUT", c.Server.ReadTimeout, &errs)
	c.Server.WriteTimeout = getDurationOrDefault("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout, &errs)
	c.Server.IdleTimeout = getDurationOrDefault("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout, &errs)

	c.Security.CSRFKey = getEnvOrDefault("CSRF_KEY", c.Security.CSRFKey)
	if origins := os.Getenv("CSRF_TRUSTED_ORIGINS"); origins != "" {
		c.Security.CSRFTrustedOrigins = strings.Fields(origins)
	}

	c.Provider.APIKey = getEnvOrDefault("OPENROUTER_API_KEY", c.Provider.APIKey)
	c.Provider.BaseURL = getEnvOrDefault("OPENROUTER_BASE_URL", c.Provider.BaseURL)
	c.Provider.Model = getEnvOrDefault("OPENROUTER_MODEL", c.Provider.Model)
	c.Provider.MaxTokens = getIntOrDefault("OPENROUTER_MAX_TOKENS", c.Provider.MaxTokens, &errs)
	c.Provider.Temperature = getFloatOrDefault("OPENROUTER_TEMPERATURE", c.Provider.Temperature, &errs)
	c.Provider.Timeout = getDurationOrDefault("PROVIDER_TIMEOUT", c.Provider.Timeout, &errs)
	c.Provider.AppURL = getEnvOrDefault("APP_URL", c.Provider.AppURL)
	c.Provider.AppTitle = getEnvOrDefault("APP_TITLE", c.Provider.AppTitle)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment:\n%w", errors.Join(errs...))
	}
	return nil
}

// validate checks that all required configuration is present and valid.
// A missing provider key is reported per request, not here.
func (c *Config) validate() error {
	var errs []error

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if c.Provider.BaseURL == "" {
		errs = append(errs, errors.New("OPENROUTER_BASE_URL must not be empty"))
	}
	if c.Provider.Model == "" {
		errs = append(errs, errors.New("OPENROUTER_MODEL must not be empty"))
	}
	if c.Provider.MaxTokens <= 0 {
		errs = append(errs, errors.New("OPENROUTER_MAX_TOKENS must be positive"))
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		errs = append(errs, errors.New("OPENROUTER_TEMPERATURE must be between 0 and 2"))
	}

	// Combine all errors
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return d
}

func getIntOrDefault(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return n
}

func getFloatOrDefault(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return f
}

func randomKey(n int) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf), nil
}

// ValidateServer checks settings only the web server needs. One-shot
// commands such as check never render a form, so Load does not enforce them.
func (c *Config) ValidateServer() error {
	if c.Security.CSRFKey == "" {
		return errors.New("CSRF_KEY is required in production")
	}
	if len(c.Security.CSRFKey) < 32 {
		return errors.New("CSRF_KEY must be at least 32 characters")
	}
	return nil
}
