package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRetries   = 5
	DefaultRetryBackoff = 500 * time.Millisecond
	DefaultAuthHeader   = "x-api-key"
)

// Config is the top-level configuration. Fields map 1:1 to config.example.yaml.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Sync   SyncConfig   `yaml:"sync"`
	Admin  AdminConfig  `yaml:"admin"`
	Notify NotifyConfig `yaml:"notify"`
}

// APIConfig holds upstream service settings.
type APIConfig struct {
	// BaseURL is the root of the upstream API, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// Auth configures how requests to the upstream are authenticated.
	Auth AuthConfig `yaml:"auth"`

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the attempt cap per call. Transient upstream errors
	// (HTTP 5xx and 429) are retried up to this many attempts.
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the initial wait between attempts. It doubles per
	// retry and carries jitter.
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`
}

// AuthConfig specifies the upstream authentication mode.
type AuthConfig struct {
	// Mode is one of: apikey | bearer | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header the API key is sent in (apikey mode).
	// Defaults to x-api-key.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the key value.
	KeyEnv string `yaml:"key_env"`

	// TokenEnv is the name of the environment variable holding the bearer
	// token (bearer mode).
	TokenEnv string `yaml:"token_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// EffectiveHeader returns the configured key header, or the default when unset.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header == "" {
		return DefaultAuthHeader
	}
	return a.Header
}

// TLSConfig holds TLS dial options for the upstream connection.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this against internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// SyncConfig holds pipeline settings.
type SyncConfig struct {
	// SiteID is the site whose outages are enriched and submitted.
	SiteID string `yaml:"site_id"`

	// Interval re-runs the pipeline on a ticker when positive.
	// Zero means run once and exit.
	Interval time.Duration `yaml:"interval"`
}

// AdminConfig holds the diagnostics listener settings.
type AdminConfig struct {
	// Listen is the address for /healthz, /status and /metrics
	// (e.g. ":8080"). Empty disables the listener.
	Listen string `yaml:"listen"`
}

// NotifyConfig holds failure notification targets.
type NotifyConfig struct {
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		API: APIConfig{
			Timeout:      DefaultTimeout,
			MaxRetries:   DefaultMaxRetries,
			RetryBackoff: DefaultRetryBackoff,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if cfg.API.MaxRetries < 1 {
		return fmt.Errorf("api.max_retries must be at least 1")
	}
	if cfg.API.RetryBackoff <= 0 {
		return fmt.Errorf("api.retry_backoff must be positive")
	}
	switch cfg.API.Auth.Mode {
	case "apikey", "bearer", "none", "":
	default:
		return fmt.Errorf("api.auth: unknown mode %q", cfg.API.Auth.Mode)
	}
	if cfg.Sync.SiteID == "" {
		return fmt.Errorf("sync.site_id is required")
	}
	if cfg.Sync.Interval < 0 {
		return fmt.Errorf("sync.interval must not be negative")
	}
	for i, wh := range cfg.Notify.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("notify.webhooks[%d]: unknown type %q", i, wh.Type)
		}
		if wh.URLEnv == "" {
			return fmt.Errorf("notify.webhooks[%d]: url_env is required", i)
		}
	}
	return nil
}
