package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the HA adapter.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Hub       HubConfig       `yaml:"hub"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Forwarder ForwarderConfig `yaml:"forwarder"`
	Lux       LuxConfig       `yaml:"lux"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HubConfig contains the Home Assistant connection settings.
type HubConfig struct {
	// WebSocketURL is the hub's WebSocket API endpoint,
	// e.g. "ws://homeassistant.local:8123/api/websocket".
	WebSocketURL string `yaml:"websocket_url"`

	// BaseURL is the hub's REST API base URL. If empty it is derived
	// from WebSocketURL (ws→http, wss→https, path stripped).
	BaseURL string `yaml:"base_url"`

	// Token is a long-lived access token for the hub.
	Token string `yaml:"token"`

	// Timeout is the REST request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// MonitorConfig contains the external monitor delivery settings.
type MonitorConfig struct {
	// URL is the endpoint notifications are POSTed to.
	// Empty disables forwarding entirely.
	URL string `yaml:"url"`

	// ExplorerURL is the environment explorer registration endpoint.
	// Empty disables explorer registration.
	ExplorerURL string `yaml:"explorer_url"`

	// Timeout is the delivery request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// ForwarderConfig contains the event forwarder settings.
type ForwarderConfig struct {
	// Areas is the allow-list of area identifiers. Empty accepts all areas.
	Areas []string `yaml:"areas"`

	// BaseURI is the public base URI used when minting workspace and
	// artifact URIs in forwarded notifications.
	BaseURI string `yaml:"base_uri"`

	// ReconnectDelay is the fixed delay in seconds before a full
	// reconnect-and-rebuild cycle after a stream failure.
	ReconnectDelay int `yaml:"reconnect_delay"`
}

// LuxConfig contains the illuminance accumulator settings.
type LuxConfig struct {
	Enabled bool `yaml:"enabled"`

	// SensorEntity is the synthetic sensor whose value is adjusted.
	SensorEntity string `yaml:"sensor_entity"`

	LightIncrement  int `yaml:"light_increment"`
	LightDecrement  int `yaml:"light_decrement"`
	BlindsIncrement int `yaml:"blinds_increment"`
	BlindsDecrement int `yaml:"blinds_decrement"`
}

// MQTTConfig contains the optional notification mirror broker settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HAADAPTER_SECTION_KEY
// For example: HAADAPTER_HUB_TOKEN, HAADAPTER_MONITOR_URL
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.normalise()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			WebSocketURL: "ws://localhost:8123/api/websocket",
			Timeout:      10,
		},
		Monitor: MonitorConfig{
			Timeout: 10,
		},
		Forwarder: ForwarderConfig{
			BaseURI:        "http://localhost:8080/",
			ReconnectDelay: 3,
		},
		Lux: LuxConfig{
			SensorEntity:    "sensor.internal_light_sensing",
			LightIncrement:  100,
			LightDecrement:  100,
			BlindsIncrement: 50,
			BlindsDecrement: 50,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "ha-adapter",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HAADAPTER_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Hub
	if v := os.Getenv("HAADAPTER_HUB_WEBSOCKET_URL"); v != "" {
		cfg.Hub.WebSocketURL = v
	}
	if v := os.Getenv("HAADAPTER_HUB_BASE_URL"); v != "" {
		cfg.Hub.BaseURL = v
	}
	if v := os.Getenv("HAADAPTER_HUB_TOKEN"); v != "" {
		cfg.Hub.Token = v
	}

	// Monitor
	if v := os.Getenv("HAADAPTER_MONITOR_URL"); v != "" {
		cfg.Monitor.URL = v
	}
	if v := os.Getenv("HAADAPTER_EXPLORER_URL"); v != "" {
		cfg.Monitor.ExplorerURL = v
	}

	// Forwarder
	if v := os.Getenv("HAADAPTER_FORWARDER_AREAS"); v != "" {
		cfg.Forwarder.Areas = splitList(v)
	}
	if v := os.Getenv("HAADAPTER_FORWARDER_BASE_URI"); v != "" {
		cfg.Forwarder.BaseURI = v
	}

	// MQTT mirror credentials
	if v := os.Getenv("HAADAPTER_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HAADAPTER_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// normalise derives dependent values after loading.
func (c *Config) normalise() {
	if c.Hub.BaseURL == "" {
		c.Hub.BaseURL = DeriveBaseURL(c.Hub.WebSocketURL)
	}
	c.Hub.BaseURL = strings.TrimRight(c.Hub.BaseURL, "/")
	c.Forwarder.BaseURI = strings.TrimRight(c.Forwarder.BaseURI, "/")
}

// DeriveBaseURL converts a hub WebSocket URL into the REST base URL.
// ws:// becomes http://, wss:// becomes https://, and the
// /api/websocket suffix is stripped.
func DeriveBaseURL(wsURL string) string {
	base := strings.Replace(wsURL, "ws://", "http://", 1)
	base = strings.Replace(base, "wss://", "https://", 1)
	if i := strings.Index(base, "/api/websocket"); i >= 0 {
		base = base[:i]
	}
	return strings.TrimRight(base, "/")
}

// splitList splits a comma-separated environment value into trimmed entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Hub validation - the adapter is useless without a hub connection
	if c.Hub.WebSocketURL == "" {
		errs = append(errs, "hub.websocket_url is required")
	}
	if c.Hub.Token == "" {
		errs = append(errs, "hub.token is required (set HAADAPTER_HUB_TOKEN environment variable)")
	}

	// MQTT validation (only when the mirror is enabled)
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Lux validation - negative magnitudes would invert the accumulator
	if c.Lux.LightIncrement < 0 || c.Lux.LightDecrement < 0 ||
		c.Lux.BlindsIncrement < 0 || c.Lux.BlindsDecrement < 0 {
		errs = append(errs, "lux increments and decrements must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// AreaAllowed reports whether events from the given area should be forwarded.
// An empty allow-list accepts all areas.
func (c *ForwarderConfig) AreaAllowed(areaID string) bool {
	if len(c.Areas) == 0 {
		return true
	}
	for _, a := range c.Areas {
		if a == areaID {
			return true
		}
	}
	return false
}
