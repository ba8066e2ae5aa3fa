package models

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)

// Target is a syntactically valid absolute URL submitted for analysis,
// plus host hints derived offline for the prompt.
type Target struct {
	Raw    string
	Scheme string

	// Host is the hostname as written, lower-cased and without port.
	Host string
	// ASCIIHost is the IDNA (punycode) form of Host.
	ASCIIHost string
	// UnicodeHost is the display form of Host.
	UnicodeHost string
	// RegistrableDomain is eTLD+1, blank when it cannot be derived.
	RegistrableDomain string
}

// ParseTarget validates raw as an absolute URL with a scheme.
// No network access happens here.
func ParseTarget(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrURLRequired
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &URLError{Input: raw, Err: ErrInvalidURL}
	}
	if !schemePattern.MatchString(u.Scheme) {
		return nil, &URLError{Input: raw, Err: ErrInvalidURL}
	}

	// Hierarchical URLs need a host, opaque ones (mailto:, data:) need a body.
	if u.Opaque == "" && u.Host == "" {
		return nil, &URLError{Input: raw, Err: ErrInvalidURL}
	}
	if u.Host != "" && u.Hostname() == "" {
		return nil, &URLError{Input: raw, Err: ErrInvalidURL}
	}

	t := &Target{
		Raw:    raw,
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Hostname()),
	}
	t.deriveHostHints()

	return t, nil
}

func (t *Target) deriveHostHints() {
	if t.Host == "" {
		return
	}

	// IP literals have no labels to convert and no registrable domain
	if net.ParseIP(t.Host) != nil {
		t.ASCIIHost, t.UnicodeHost = t.Host, t.Host
		return
	}

	t.ASCIIHost = t.Host
	if converted, err := idna.Lookup.ToASCII(t.Host); err == nil && converted != "" {
		t.ASCIIHost = converted
	}

	t.UnicodeHost = t.Host
	if converted, err := idna.Lookup.ToUnicode(t.ASCIIHost); err == nil && converted != "" {
		t.UnicodeHost = converted
	}

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(t.ASCIIHost); err == nil {
		t.RegistrableDomain = strings.ToLower(etld1)
	}
}

// IsInternationalized reports whether the host uses non-ASCII labels or punycode.
func (t *Target) IsInternationalized() bool {
	return t.ASCIIHost != "" && (t.ASCIIHost != t.UnicodeHost || strings.Contains(t.ASCIIHost, "xn--"))
}

// IsHTTPS reports whether the URL uses TLS transport.
func (t *Target) IsHTTPS() bool {
	return t.Scheme == "https"
}
