package config

// applyEnv overlays environment variables onto cfg. Environment wins over
// both defaults and the config file so secrets can stay out of files.
func applyEnv(cfg *Config) {
	setStringFromEnv("COMMERCE_BASE_URL", func(v string) { cfg.Commerce.BaseURL = v })
	setStringFromEnv("COMMERCE_STORE_VIEW", func(v string) { cfg.Commerce.StoreView = v })
	setStringFromEnv("COMMERCE_CONSUMER_KEY", func(v string) { cfg.Commerce.ConsumerKey = v })
	setStringFromEnv("COMMERCE_CONSUMER_SECRET", func(v string) { cfg.Commerce.ConsumerSecret = v })
	setStringFromEnv("COMMERCE_ACCESS_TOKEN", func(v string) { cfg.Commerce.AccessToken = v })
	setStringFromEnv("COMMERCE_ACCESS_TOKEN_SECRET", func(v string) { cfg.Commerce.AccessTokenSecret = v })
	setStringFromEnv("COMMERCE_ADMIN_USERNAME", func(v string) { cfg.Commerce.AdminUsername = v })
	setStringFromEnv("COMMERCE_ADMIN_PASSWORD", func(v string) { cfg.Commerce.AdminPassword = v })

	setStringFromEnv("EVENTS_BASE_URL", func(v string) { cfg.Events.BaseURL = v })
	setStringFromEnv("EVENTS_API_KEY", func(v string) { cfg.Events.APIKey = v })
	setStringFromEnv("EVENTS_CONSUMER_ID", func(v string) { cfg.Events.ConsumerID = v })
	setStringFromEnv("EVENTS_PROJECT_ID", func(v string) { cfg.Events.ProjectID = v })
	setStringFromEnv("EVENTS_WORKSPACE_ID", func(v string) { cfg.Events.WorkspaceID = v })

	setStringFromEnv("IMS_CONTEXT_NAME", func(v string) { cfg.IMS.ContextName = v })
	setStringFromEnv("IMS_TOKEN_URL", func(v string) { cfg.IMS.TokenURL = v })
	setStringFromEnv("IMS_CLIENT_ID", func(v string) { cfg.IMS.ClientID = v })
	setStringFromEnv("IMS_CLIENT_SECRETS", func(v string) { cfg.IMS.ClientSecrets = splitAndTrim(v, ",") })
	setStringFromEnv("IMS_TECHNICAL_ACCOUNT_ID", func(v string) { cfg.IMS.TechnicalAccountID = v })
	setStringFromEnv("IMS_TECHNICAL_ACCOUNT_EMAIL", func(v string) { cfg.IMS.TechnicalAccountEmail = v })
	setStringFromEnv("IMS_ORG_ID", func(v string) { cfg.IMS.OrgID = v })
	setStringFromEnv("IMS_SCOPES", func(v string) { cfg.IMS.Scopes = splitAndTrim(v, ",") })

	setStringFromEnv("STORE_BACKEND", func(v string) { cfg.Store.Backend = v })
	setStringFromEnv("STORE_REDIS_ADDR", func(v string) { cfg.Store.Addr = v })
	setStringFromEnv("STORE_REDIS_PASSWORD", func(v string) { cfg.Store.Password = v })
	setIntFromEnv("STORE_REDIS_DB", func(v int) { cfg.Store.DB = v })
	setStringFromEnv("STORE_PREFIX", func(v string) { cfg.Store.Prefix = v })

	setStringFromEnv("SERVER_HOST", func(v string) { cfg.Server.Host = v })
	setIntFromEnv("SERVER_PORT", func(v int) { cfg.Server.Port = v })
	setToggleFromEnv("SERVER_METRICS_ENABLED", func(v bool) { cfg.Server.MetricsEnabled = v })
	setIntFromEnv("SERVER_RATE_RPS", func(v int) { cfg.Server.RateRPS = v })
	setIntFromEnv("SERVER_RATE_BURST", func(v int) { cfg.Server.RateBurst = v })
	setStringFromEnv("SERVER_PROTECTED_EVENTS", func(v string) { cfg.Server.ProtectedEvents = splitAndTrim(v, ",") })
	setIntFromEnv("SERVER_LOOP_TTL_SECONDS", func(v int) { cfg.Server.LoopTTLSeconds = v })

	setToggleFromEnv("DEBUG", func(v bool) { cfg.Security.Debug = v })
	setStringFromEnv("LOG_FILE", func(v string) { cfg.Security.LogFile = v })
}
