package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/securelink/internal/models"
)

func TestCheck_ProductionWithoutCSRFKey(t *testing.T) {
	for _, key := range []string{
		"SERVER_ADDRESS", "CSRF_KEY", "CSRF_TRUSTED_ORIGINS",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "LOG_LEVEL", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("APP_ENV", "production")

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs([]string{"check", "   "})
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		cfg, logger = nil, nil
	})

	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrURLRequired)
	assert.NotContains(t, err.Error(), "CSRF_KEY")

	// main prints the error once; cobra must not print it or the usage
	assert.True(t, rootCmd.SilenceErrors)
	assert.Empty(t, stderr.String())
	assert.Empty(t, stdout.String())
}
