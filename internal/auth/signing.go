package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const signatureMethod = "HMAC-SHA256"

// SigningStrategy computes a one-time OAuth1-style signature per call from a
// consumer key/secret and an access token/secret. Signatures are single-use
// by construction (nonce and timestamp dependent), so nothing is cached and
// every attempt is re-signed.
type SigningStrategy struct {
	consumerKey       string
	consumerSecret    string
	accessToken       string
	accessTokenSecret string

	// injectable for deterministic tests
	nonce func() string
	now   func() time.Time
}

// SigningOption customizes the strategy.
type SigningOption func(*SigningStrategy)

// WithNonceSource overrides nonce generation. Test hook.
func WithNonceSource(nonce func() string) SigningOption {
	return func(s *SigningStrategy) {
		if nonce != nil {
			s.nonce = nonce
		}
	}
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) SigningOption {
	return func(s *SigningStrategy) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSigningStrategy builds a per-request signing strategy.
func NewSigningStrategy(consumerKey, consumerSecret, accessToken, accessTokenSecret string, opts ...SigningOption) *SigningStrategy {
	s := &SigningStrategy{
		consumerKey:       consumerKey,
		consumerSecret:    consumerSecret,
		accessToken:       accessToken,
		accessTokenSecret: accessTokenSecret,
		nonce:             func() string { return uuid.NewString() },
		now:               time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Authorize injects the computed "Authorization: OAuth ..." header.
func (s *SigningStrategy) Authorize(_ context.Context, req *http.Request) error {
	params := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_nonce":            s.nonce(),
		"oauth_signature_method": signatureMethod,
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_token":            s.accessToken,
		"oauth_version":          "1.0",
	}
	params["oauth_signature"] = s.sign(req.Method, req.URL, params)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, percentEncode(params[k])))
	}
	req.Header.Set("Authorization", "OAuth "+strings.Join(pairs, ", "))
	return nil
}

// sign canonicalizes method, base URL and parameters into the signature base
// string and HMACs it with the combined secrets.
func (s *SigningStrategy) sign(method string, u *url.URL, oauthParams map[string]string) string {
	// collect oauth params plus any query parameters
	collected := make(map[string][]string)
	for k, v := range oauthParams {
		collected[k] = append(collected[k], v)
	}
	for k, vs := range u.Query() {
		collected[k] = append(collected[k], vs...)
	}

	keys := make([]string, 0, len(collected))
	for k := range collected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		vs := collected[k]
		sort.Strings(vs)
		for _, v := range vs {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}

	baseURL := u.Scheme + "://" + u.Host + u.Path
	base := strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(strings.Join(pairs, "&"))

	key := percentEncode(s.consumerSecret) + "&" + percentEncode(s.accessTokenSecret)
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode implements RFC 3986 encoding (everything but unreserved
// characters is escaped).
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
