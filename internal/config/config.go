package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when fields are absent from the config file.
const (
	DefaultEndpoint        = "https://backboard.railway.com/graphql/v2"
	DefaultIntervalMinutes = 15
	DefaultHTTPPort        = 8080
	DefaultAPIKeyHeader    = "X-API-Key"
)

// intervalChoices is the allowed set of poll intervals, in minutes.
var intervalChoices = []int{5, 10, 15, 30, 60}

// Config is the top-level configuration tree. Fields map 1:1 to config.yaml.
type Config struct {
	Railway RailwayConfig `yaml:"railway"`
	Poll    PollConfig    `yaml:"poll"`
	HTTP    HTTPConfig    `yaml:"http"`
	WS      WSConfig      `yaml:"ws"`
	Alerts  AlertsConfig  `yaml:"alerts"`
}

// RailwayConfig holds the API endpoint and credential settings.
type RailwayConfig struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string `yaml:"endpoint"`

	// TokenEnv is the name of the environment variable holding the API
	// token. The token itself never lives in the config file.
	TokenEnv string `yaml:"token_env"`

	// TokenKind selects the auth header: personal | team.
	TokenKind string `yaml:"token_kind"`
}

// Token returns the API token resolved from the environment.
func (r RailwayConfig) Token() string {
	if r.TokenEnv == "" {
		return ""
	}
	return os.Getenv(r.TokenEnv)
}

// PollConfig controls the aggregation cycle cadence.
type PollConfig struct {
	// IntervalMinutes is the poll interval. One of 5, 10, 15, 30, 60.
	IntervalMinutes int `yaml:"interval_minutes"`
}

// Interval returns the poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// HTTPConfig holds the read-API server settings.
type HTTPConfig struct {
	Port int            `yaml:"port"`
	Auth HTTPAuthConfig `yaml:"auth"`
}

// HTTPAuthConfig configures read-API authentication.
type HTTPAuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the HTTP header carrying the key. Defaults to X-API-Key.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the expected API key resolved from the environment.
func (a HTTPAuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name or the default.
func (a HTTPAuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAPIKeyHeader
}

// WSConfig controls the WebSocket snapshot stream.
type WSConfig struct {
	// Enabled turns the /ws/stream endpoint on. Defaults to true.
	Enabled *bool `yaml:"enabled"`
}

// On reports whether the stream is enabled.
func (w WSConfig) On() bool {
	return w.Enabled == nil || *w.Enabled
}

// Duration is a time.Duration that unmarshals from YAML strings like "30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// AlertsConfig holds threshold rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold condition over the snapshot.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is an expression like "credit_balance < 5" or
	// "status == auth_failed".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	Cooldown Duration `yaml:"cooldown"`
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
// Missing optional fields are filled with defaults.
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
		Railway: RailwayConfig{
			Endpoint:  DefaultEndpoint,
			TokenKind: "personal",
		},
		Poll: PollConfig{IntervalMinutes: DefaultIntervalMinutes},
		HTTP: HTTPConfig{Port: DefaultHTTPPort},
	}
}

// validate checks required fields and enum constraints.
func validate(cfg *Config) error {
	if cfg.Railway.TokenEnv == "" {
		return fmt.Errorf("railway.token_env is required")
	}
	switch cfg.Railway.TokenKind {
	case "personal", "team":
	default:
		return fmt.Errorf("railway.token_kind must be personal or team, got %q", cfg.Railway.TokenKind)
	}

	if !validInterval(cfg.Poll.IntervalMinutes) {
		return fmt.Errorf("poll.interval_minutes must be one of %v, got %d",
			intervalChoices, cfg.Poll.IntervalMinutes)
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", cfg.HTTP.Port)
	}
	switch cfg.HTTP.Auth.Mode {
	case "", "none":
	case "apikey":
		if cfg.HTTP.Auth.KeyEnv == "" {
			return fmt.Errorf("http.auth.key_env is required when mode is apikey")
		}
	default:
		return fmt.Errorf("http.auth.mode must be apikey or none, got %q", cfg.HTTP.Auth.Mode)
	}

	for i, rule := range cfg.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if rule.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] %q: condition is required", i, rule.Name)
		}
	}
	for i, wh := range cfg.Alerts.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, wh.Type)
		}
	}
	return nil
}

// validInterval reports whether minutes is one of the allowed choices.
func validInterval(minutes int) bool {
	for _, c := range intervalChoices {
		if minutes == c {
			return true
		}
	}
	return false
}
