// ABOUTME: Configuration loading and parsing for support-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete support-gateway configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Backend  BackendConfig  `yaml:"backend"`
	Session  SessionConfig  `yaml:"session"`
	Routing  RoutingConfig  `yaml:"routing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig holds order database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// BackendConfig holds generation backend configuration
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// SessionConfig holds websocket session configuration
type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"-"`
	WelcomeText string        `yaml:"welcome_text"`

	// Raw string value for YAML unmarshaling
	IdleTimeoutRaw string `yaml:"idle_timeout"`
}

// RoutingConfig holds routing policy constants. The thresholds are policy
// knobs, not derived values; zero-valued fields take the DefaultRouting values.
type RoutingConfig struct {
	// EscalationConfidence is the floor below which a selected handler is
	// overridden to escalation.
	EscalationConfidence float64 `yaml:"escalation_confidence"`

	// StickinessRatio keeps the previous turn's handler when it scores within
	// this fraction of the best score.
	StickinessRatio float64 `yaml:"stickiness_ratio"`

	// MaxTurnsSameHandler forces escalation after this many consecutive turns
	// with one handler.
	MaxTurnsSameHandler int `yaml:"max_turns_same_handler"`

	// ContactRetryCeiling is the number of failed contact-info extractions
	// after which the sub-dialog is logged as likely abandoned.
	ContactRetryCeiling int `yaml:"contact_retry_ceiling"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultRouting returns the routing policy defaults.
func DefaultRouting() RoutingConfig {
	return RoutingConfig{
		EscalationConfidence: 0.3,
		StickinessRatio:      0.8,
		MaxTurnsSameHandler:  5,
		ContactRetryCeiling:  3,
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.ApplyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	def := DefaultRouting()
	if c.Routing.EscalationConfidence == 0 {
		c.Routing.EscalationConfidence = def.EscalationConfidence
	}
	if c.Routing.StickinessRatio == 0 {
		c.Routing.StickinessRatio = def.StickinessRatio
	}
	if c.Routing.MaxTurnsSameHandler == 0 {
		c.Routing.MaxTurnsSameHandler = def.MaxTurnsSameHandler
	}
	if c.Routing.ContactRetryCeiling == 0 {
		c.Routing.ContactRetryCeiling = def.ContactRetryCeiling
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 30 * time.Second
	}
	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = 5 * time.Minute
	}
	if c.Session.WelcomeText == "" {
		c.Session.WelcomeText = "Welcome to our AI Customer Support! How can I help you today?"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}

	if c.Routing.StickinessRatio < 0 || c.Routing.StickinessRatio > 1 {
		return fmt.Errorf("routing.stickiness_ratio must be in [0,1], got %v", c.Routing.StickinessRatio)
	}

	if c.Routing.EscalationConfidence < 0 || c.Routing.EscalationConfidence > 1 {
		return fmt.Errorf("routing.escalation_confidence must be in [0,1], got %v", c.Routing.EscalationConfidence)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Backend.TimeoutRaw != "" {
		cfg.Backend.Timeout, err = time.ParseDuration(cfg.Backend.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing backend timeout %q: %w", cfg.Backend.TimeoutRaw, err)
		}
	}

	if cfg.Session.IdleTimeoutRaw != "" {
		cfg.Session.IdleTimeout, err = time.ParseDuration(cfg.Session.IdleTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing session idle_timeout %q: %w", cfg.Session.IdleTimeoutRaw, err)
		}
	}

	return nil
}
