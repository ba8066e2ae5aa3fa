package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget_Valid(t *testing.T) {
	tests := []struct {
		raw        string
		scheme     string
		host       string
		registered string
	}{
		{"https://example.com", "https", "example.com", "example.com"},
		{"  http://Login.Example.co.uk:8080/path?q=1  ", "http", "login.example.co.uk", "example.co.uk"},
		{"ftp://files.example.org/pub", "ftp", "files.example.org", "example.org"},
		{"mailto:someone@example.com", "mailto", "", ""},
		{"http://192.168.0.1/admin", "http", "192.168.0.1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			target, err := ParseTarget(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, target.Scheme)
			assert.Equal(t, tt.host, target.Host)
			assert.Equal(t, tt.registered, target.RegistrableDomain)
		})
	}
}

func TestParseTarget_TrimsInput(t *testing.T) {
	target, err := ParseTarget("\thttps://example.com/a \n")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", target.Raw)
	assert.True(t, target.IsHTTPS())
}

func TestParseTarget_Required(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := ParseTarget(raw)
		assert.ErrorIs(t, err, ErrURLRequired)
		assert.True(t, IsBadRequest(err))
	}
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, raw := range []string{
		"not a url",
		"example.com",
		"www.example.com/path",
		"/relative/path",
		"http://",
		"://missing-scheme.com",
		"http://[::1",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseTarget(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidURL)

			var urlErr *URLError
			require.True(t, errors.As(err, &urlErr))
			assert.Equal(t, raw, urlErr.Input)
			assert.Equal(t, ErrInvalidURL.Error(), errors.Unwrap(err).Error())
		})
	}
}

func TestParseTarget_InternationalizedHost(t *testing.T) {
	target, err := ParseTarget("https://bücher.example/")
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.example", target.ASCIIHost)
	assert.Equal(t, "bücher.example", target.UnicodeHost)
	assert.True(t, target.IsInternationalized())

	plain, err := ParseTarget("https://example.com")
	require.NoError(t, err)
	assert.False(t, plain.IsInternationalized())
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsBadRequest(ErrInvalidBody))
	assert.True(t, IsBadRequest(&URLError{Input: "x", Err: ErrInvalidURL}))
	assert.False(t, IsBadRequest(ErrAPIKeyMissing))
	assert.True(t, IsServerConfiguration(ErrAPIKeyMissing))
	assert.False(t, IsServerConfiguration(ErrURLRequired))
}
