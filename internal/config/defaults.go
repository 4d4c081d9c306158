package config

// Default returns a Config populated with safe defaults. Values are then
// overridden by the config file and finally by environment variables.
func Default() *Config {
	return &Config{
		Commerce: CommerceConfig{
			StoreView: "all",
		},
		IMS: IMSConfig{
			ContextName: "onboarding",
			TokenURL:    "https://ims-na1.adobelogin.com/ims/token/v3",
			Scopes: []string{
				"AdobeID",
				"openid",
				"adobeio_api",
				"read_organizations",
			},
		},
		Store: StoreConfig{
			Backend: "memory",
			Addr:    "localhost:6379",
			Prefix:  "commerce-events:",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			MetricsEnabled: true,
			RateRPS:        10,
			RateBurst:      20,
			LoopTTLSeconds: 60,
		},
	}
}
