package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the parts of the configuration that would otherwise fail
// deep inside a client call. Credentials are not required here: an action may
// legitimately use only one of the three APIs.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"commerce.base_url": c.Commerce.BaseURL,
		"events.base_url":   c.Events.BaseURL,
		"ims.token_url":     c.IMS.TokenURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not a valid URL: %q", name, raw)
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Store.Backend)) {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(c.Store.Addr) == "" {
			return fmt.Errorf("store.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
