// Package dedup prevents an event-driven action from re-processing an event
// it itself produced, by fingerprinting payloads into a TTL store.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns the hex SHA-256 digest of v's canonical JSON form.
// The digest is a pure function of content, not identity: any two values
// with the same JSON representation fingerprint identically.
func Fingerprint(v interface{}) (string, error) {
	canonical, err := canonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON normalizes v by round-tripping through encoding/json, which
// sorts object keys and erases type-level differences (struct vs map).
func canonicalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize fingerprint input: %w", err)
	}
	var normalized interface{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("failed to normalize fingerprint input: %w", err)
	}
	return json.Marshal(normalized)
}
