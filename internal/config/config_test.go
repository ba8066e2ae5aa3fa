package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDRESS", "APP_ENV", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"CSRF_KEY", "CSRF_TRUSTED_ORIGINS",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL", "OPENROUTER_MAX_TOKENS",
		"OPENROUTER_TEMPERATURE", "PROVIDER_TIMEOUT", "APP_URL", "APP_TITLE",
		"LOG_LEVEL", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Provider.BaseURL)
	assert.Equal(t, "deepseek/deepseek-chat-v3.1:free", cfg.Provider.Model)
	assert.Equal(t, 800, cfg.Provider.MaxTokens)
	assert.InDelta(t, 0.1, cfg.Provider.Temperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "Spam Link Checker", cfg.Provider.AppTitle)
	assert.Equal(t, "info", cfg.Log.Level)

	// the key is reported per request, never at startup
	assert.False(t, cfg.Provider.HasAPIKey())

	// development generates a throwaway CSRF key
	assert.Len(t, cfg.Security.CSRFKey, 32)
	assert.False(t, cfg.Security.SecureCookies)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_MODEL", "other/model")
	t.Setenv("OPENROUTER_MAX_TOKENS", "400")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("CSRF_TRUSTED_ORIGINS", "example.com  app.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.True(t, cfg.Provider.HasAPIKey())
	assert.Equal(t, "other/model", cfg.Provider.Model)
	assert.Equal(t, 400, cfg.Provider.MaxTokens)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, []string{"example.com", "app.example.com"}, cfg.Security.CSRFTrustedOrigins)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "securelink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":7000"
  read_timeout: 3s
provider:
  model: file/model
  max_tokens: 256
log:
  level: debug
`), 0o600))

	t.Setenv("OPENROUTER_MODEL", "env/model")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 256, cfg.Provider.MaxTokens)
	assert.Equal(t, "debug", cfg.Log.Level)
	// env wins over the file
	assert.Equal(t, "env/model", cfg.Provider.Model)
	// untouched keys keep their defaults
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":7100\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Server.Address)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ProductionDefersCSRFKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Empty(t, cfg.Security.CSRFKey)

	err = cfg.ValidateServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSRF_KEY is required in production")
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "missing", key: "", wantErr: "CSRF_KEY is required in production"},
		{name: "too short", key: "too-short", wantErr: "at least 32 characters"},
		{name: "valid", key: "0123456789abcdef0123456789abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", "production")
			if tt.key != "" {
				t.Setenv("CSRF_KEY", tt.key)
			}

			cfg, err := Load("")
			require.NoError(t, err)
			assert.True(t, cfg.Security.SecureCookies)

			err = cfg.ValidateServer()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DevelopmentGeneratesServerKey(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Security.CSRFKey, 32)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "qa")
	t.Setenv("OPENROUTER_TEMPERATURE", "3")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV must be one of")
	assert.Contains(t, err.Error(), "OPENROUTER_TEMPERATURE must be between 0 and 2")
}

func TestLoad_MalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER_TIMEOUT", "soon")
	t.Setenv("OPENROUTER_MAX_TOKENS", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PROVIDER_TIMEOUT")
	assert.Contains(t, err.Error(), "invalid OPENROUTER_MAX_TOKENS")
}
