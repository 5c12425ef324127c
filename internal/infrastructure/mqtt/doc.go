// Package mqtt provides the optional broker mirror for delivered
// notifications.
//
// This package manages:
//   - Connection to an MQTT broker with auto-reconnect
//   - Publishing mirrored notifications per area and artifact
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The mirror is a secondary, best-effort delivery channel beside the
// primary HTTP monitor. Every notification the monitor accepts is also
// published to hmas/notifications/{area}/{artifact}, letting local
// consumers follow property updates without polling the adapter.
// The mirror only publishes; the adapter never consumes broker traffic.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.PublishNotification("office", "Desk Lamp", body)
package mqtt
