//go:build integration

package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
)

// Integration tests for the broker mirror.
// These tests require a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func integrationConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "ha-adapter-integration-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestConnectAndClose(t *testing.T) {
	client, err := Connect(integrationConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
}

func TestConnectRefused(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.Port = 19999

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestPublishNotificationRoundtrip(t *testing.T) {
	client, err := Connect(integrationConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if err := client.PublishNotification("office", "Desk Lamp", []byte(`{"value":true}`)); err != nil {
		t.Errorf("PublishNotification() error = %v", err)
	}
}

func TestOnConnectCallback(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.ClientID = "ha-adapter-callback-test"

	connected := make(chan struct{}, 1)

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	client.SetOnConnect(func() {
		select {
		case connected <- struct{}{}:
		default:
		}
	})

	// Initial connect may already have fired before the callback was
	// registered; only assert the client stays connected.
	select {
	case <-connected:
	case <-time.After(100 * time.Millisecond):
	}
	if !client.IsConnected() {
		t.Error("IsConnected() = false")
	}
}
