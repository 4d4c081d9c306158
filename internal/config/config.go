package config

// Config is the runtime configuration for the toolkit and its action hosts.
type Config struct {
	Commerce CommerceConfig `yaml:"commerce" json:"commerce"`
	Events   EventsConfig   `yaml:"events" json:"events"`
	IMS      IMSConfig      `yaml:"ims" json:"ims"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Security SecurityConfig `yaml:"security" json:"security"`
}

// CommerceConfig holds back-office API settings. OAuth1 keys take precedence
// over the admin username/password pair when both are present.
type CommerceConfig struct {
	BaseURL           string `yaml:"base_url" json:"base_url"`
	StoreView         string `yaml:"store_view" json:"store_view"`
	ConsumerKey       string `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret    string `yaml:"consumer_secret" json:"consumer_secret"`
	AccessToken       string `yaml:"access_token" json:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret" json:"access_token_secret"`
	AdminUsername     string `yaml:"admin_username" json:"admin_username"`
	AdminPassword     string `yaml:"admin_password" json:"admin_password"`
}

// EventsConfig holds event-ingestion/registration API settings.
type EventsConfig struct {
	BaseURL     string `yaml:"base_url" json:"base_url"`
	APIKey      string `yaml:"api_key" json:"api_key"`
	ConsumerID  string `yaml:"consumer_id" json:"consumer_id"`
	ProjectID   string `yaml:"project_id" json:"project_id"`
	WorkspaceID string `yaml:"workspace_id" json:"workspace_id"`
}

// IMSConfig describes the delegated-token identity context.
type IMSConfig struct {
	ContextName           string   `yaml:"context_name" json:"context_name"`
	TokenURL              string   `yaml:"token_url" json:"token_url"`
	ClientID              string   `yaml:"client_id" json:"client_id"`
	ClientSecrets         []string `yaml:"client_secrets" json:"client_secrets"`
	TechnicalAccountID    string   `yaml:"technical_account_id" json:"technical_account_id"`
	TechnicalAccountEmail string   `yaml:"technical_account_email" json:"technical_account_email"`
	OrgID                 string   `yaml:"ims_org_id" json:"ims_org_id"`
	Scopes                []string `yaml:"scopes" json:"scopes"`
}

// StoreConfig selects and configures the TTL key/value store.
type StoreConfig struct {
	Backend  string `yaml:"backend" json:"backend"` // "redis" or "memory"
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// ServerConfig configures the webhook action host.
type ServerConfig struct {
	Host           string `yaml:"host" json:"host"`
	Port           int    `yaml:"port" json:"port"`
	MetricsEnabled bool   `yaml:"metrics_enabled" json:"metrics_enabled"`
	RateRPS        int    `yaml:"rate_rps" json:"rate_rps"`
	RateBurst      int    `yaml:"rate_burst" json:"rate_burst"`

	// ProtectedEvents lists the event types guarded against relay loops.
	// LoopTTLSeconds bounds how long a relayed fingerprint suppresses the
	// same event coming back.
	ProtectedEvents []string `yaml:"protected_events" json:"protected_events"`
	LoopTTLSeconds  int      `yaml:"loop_ttl_seconds" json:"loop_ttl_seconds"`
}

// SecurityConfig carries debug/logging switches.
type SecurityConfig struct {
	Debug   bool   `yaml:"debug" json:"debug"`
	LogFile string `yaml:"log_file" json:"log_file"`
}
