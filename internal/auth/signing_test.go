package auth

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signatureRe = regexp.MustCompile(`oauth_signature="([^"]+)"`)

func signedHeader(t *testing.T, s *SigningStrategy, method, url string) string {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	require.NoError(t, s.Authorize(context.Background(), req))
	return req.Header.Get("Authorization")
}

func TestSigningHeaderShape(t *testing.T) {
	t.Parallel()
	s := NewSigningStrategy("ck", "cs", "at", "ats")
	header := signedHeader(t, s, http.MethodGet, "https://store.example.com/rest/all/V1/orders")

	assert.True(t, len(header) > 6 && header[:6] == "OAuth ")
	for _, param := range []string{
		`oauth_consumer_key="ck"`,
		`oauth_token="at"`,
		`oauth_signature_method="HMAC-SHA256"`,
		`oauth_version="1.0"`,
	} {
		assert.Contains(t, header, param)
	}
	assert.Regexp(t, signatureRe, header)
}

func TestSigningProducesFreshSignatures(t *testing.T) {
	t.Parallel()
	s := NewSigningStrategy("ck", "cs", "at", "ats")
	url := "https://store.example.com/rest/all/V1/orders"

	h1 := signedHeader(t, s, http.MethodGet, url)
	h2 := signedHeader(t, s, http.MethodGet, url)

	sig1 := signatureRe.FindStringSubmatch(h1)
	sig2 := signatureRe.FindStringSubmatch(h2)
	require.Len(t, sig1, 2)
	require.Len(t, sig2, 2)
	assert.NotEqual(t, sig1[1], sig2[1], "nonce/timestamp make each signature unique")
}

func TestSigningIsDeterministicForFixedNonceAndClock(t *testing.T) {
	t.Parallel()
	fixed := func() *SigningStrategy {
		return NewSigningStrategy("ck", "cs", "at", "ats",
			WithNonceSource(func() string { return "nonce-1" }),
			WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		)
	}
	url := "https://store.example.com/rest/all/V1/orders?pageSize=10"

	h1 := signedHeader(t, fixed(), http.MethodGet, url)
	h2 := signedHeader(t, fixed(), http.MethodGet, url)
	assert.Equal(t, h1, h2)
}

func TestSigningVariesByMethodAndURL(t *testing.T) {
	t.Parallel()
	fixed := func() *SigningStrategy {
		return NewSigningStrategy("ck", "cs", "at", "ats",
			WithNonceSource(func() string { return "nonce-1" }),
			WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		)
	}
	url := "https://store.example.com/rest/all/V1/orders"

	get := signatureRe.FindStringSubmatch(signedHeader(t, fixed(), http.MethodGet, url))[1]
	post := signatureRe.FindStringSubmatch(signedHeader(t, fixed(), http.MethodPost, url))[1]
	other := signatureRe.FindStringSubmatch(signedHeader(t, fixed(), http.MethodGet, url+"/1"))[1]

	assert.NotEqual(t, get, post)
	assert.NotEqual(t, get, other)
}

func TestPercentEncode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc-._~XYZ019", percentEncode("abc-._~XYZ019"))
	assert.Equal(t, "a%20b%26c%3D", percentEncode("a b&c="))
	assert.Equal(t, "https%3A%2F%2Fx.example.com%2Fpath", percentEncode("https://x.example.com/path"))
}
