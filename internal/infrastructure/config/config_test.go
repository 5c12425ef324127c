package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
hub:
  websocket_url: "ws://ha.local:8123/api/websocket"
  token: "test-token"
monitor:
  url: "http://monitor.local:8081/notify"
forwarder:
  areas: ["lab_308", "kitchen"]
  base_uri: "https://example.org/ws/lab/"
api:
  host: "0.0.0.0"
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Hub.WebSocketURL != "ws://ha.local:8123/api/websocket" {
		t.Errorf("Hub.WebSocketURL = %q", cfg.Hub.WebSocketURL)
	}

	// Derived REST base URL: scheme swapped, /api/websocket stripped.
	if cfg.Hub.BaseURL != "http://ha.local:8123" {
		t.Errorf("Hub.BaseURL = %q, want %q", cfg.Hub.BaseURL, "http://ha.local:8123")
	}

	// Base URI trailing slash is trimmed so URI minting is uniform.
	if cfg.Forwarder.BaseURI != "https://example.org/ws/lab" {
		t.Errorf("Forwarder.BaseURI = %q", cfg.Forwarder.BaseURI)
	}

	if len(cfg.Forwarder.Areas) != 2 {
		t.Errorf("Forwarder.Areas = %v, want 2 entries", cfg.Forwarder.Areas)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_MissingToken(t *testing.T) {
	content := `
hub:
  websocket_url: "ws://ha.local:8123/api/websocket"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty hub.token, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
hub:
  websocket_url: "ws://ha.local:8123/api/websocket"
  token: "file-token"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("HAADAPTER_HUB_TOKEN", "env-token")
	t.Setenv("HAADAPTER_FORWARDER_AREAS", "office, lab_308 ,")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Hub.Token != "env-token" {
		t.Errorf("Hub.Token = %q, want env override", cfg.Hub.Token)
	}
	want := []string{"office", "lab_308"}
	if len(cfg.Forwarder.Areas) != len(want) {
		t.Fatalf("Forwarder.Areas = %v, want %v", cfg.Forwarder.Areas, want)
	}
	for i, a := range want {
		if cfg.Forwarder.Areas[i] != a {
			t.Errorf("Forwarder.Areas[%d] = %q, want %q", i, cfg.Forwarder.Areas[i], a)
		}
	}
}

func TestDeriveBaseURL(t *testing.T) {
	tests := []struct {
		name  string
		wsURL string
		want  string
	}{
		{"plain ws", "ws://ha.local:8123/api/websocket", "http://ha.local:8123"},
		{"secure wss", "wss://ha.example.org/api/websocket", "https://ha.example.org"},
		{"no suffix", "ws://ha.local:8123", "http://ha.local:8123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveBaseURL(tt.wsURL); got != tt.want {
				t.Errorf("DeriveBaseURL(%q) = %q, want %q", tt.wsURL, got, tt.want)
			}
		})
	}
}

func TestForwarderConfig_AreaAllowed(t *testing.T) {
	tests := []struct {
		name   string
		areas  []string
		areaID string
		want   bool
	}{
		{"empty allow-list accepts all", nil, "anything", true},
		{"listed area", []string{"lab_308", "kitchen"}, "kitchen", true},
		{"unlisted area", []string{"lab_308"}, "garage", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := ForwarderConfig{Areas: tt.areas}
			if got := fc.AreaAllowed(tt.areaID); got != tt.want {
				t.Errorf("AreaAllowed(%q) = %v, want %v", tt.areaID, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		c := defaultConfig()
		c.Hub.Token = "t"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with token", func(_ *Config) {}, false},
		{"bad api port", func(c *Config) { c.API.Port = 0 }, true},
		{"bad mqtt qos when enabled", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.QoS = 7 }, true},
		{"bad mqtt qos ignored when disabled", func(c *Config) { c.MQTT.QoS = 7 }, false},
		{"negative lux decrement", func(c *Config) { c.Lux.BlindsDecrement = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
