// HMAS Adapter - Home Assistant to Hypermedia MAS bridge
//
// This is the main entry point for the adapter. It exposes a Home
// Assistant installation as a hypermedia environment: areas become
// workspaces, devices become artifacts with W3C Thing Description
// affordances, and state changes are forwarded to an external monitor
// as observable-property notifications.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hmaslab/ha-adapter/internal/api"
	"github.com/hmaslab/ha-adapter/internal/artifact"
	"github.com/hmaslab/ha-adapter/internal/forwarder"
	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/mqtt"
	"github.com/hmaslab/ha-adapter/internal/lux"
	"github.com/hmaslab/ha-adapter/internal/monitor"
	"github.com/hmaslab/ha-adapter/internal/registry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// shutdownResetTimeout bounds the final monitor reset after the run
// context is already cancelled.
const shutdownResetTimeout = 15 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting HMAS adapter",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Hub clients: one WebSocket command connection for registry
	// reads, one REST client for states and service calls.
	hubClient := hub.NewClient(cfg.Hub)
	defer func() {
		log.Info("closing hub connection")
		if closeErr := hubClient.Close(); closeErr != nil {
			log.Error("error closing hub connection", "error", closeErr)
		}
	}()
	rest := hub.NewREST(cfg.Hub)
	log.Info("hub clients ready", "websocket_url", cfg.Hub.WebSocketURL)

	// Monitor delivery client
	monitorClient := monitor.NewClient(cfg.Monitor, log)

	// Connect to MQTT broker (optional notification mirror)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		monitorClient.SetMirror(mqttClient)
	} else {
		log.Info("MQTT mirror disabled")
	}

	// Event forwarder: hub state changes → monitor notifications.
	// Without a monitor URL the hypermedia API still serves, so the
	// forwarder simply never starts.
	var status api.StatusReporter
	fwd := forwarder.New(cfg.Forwarder, &forwarder.HubSource{Client: hubClient}, monitorClient, log)
	if monitorClient.Enabled() {
		status = fwd
		go func() {
			if resetErr := monitorClient.Reset(ctx); resetErr != nil {
				log.Warn("monitor reset failed", "error", resetErr)
			}
			if resetErr := monitorClient.ResetExplorer(ctx); resetErr != nil {
				log.Warn("explorer reset failed", "error", resetErr)
			}
			if regErr := registerInitialState(ctx, cfg, hubClient, rest, monitorClient, log); regErr != nil {
				log.Warn("initial state registration failed", "error", regErr)
			}
			// Run returns only when ctx is cancelled.
			_ = fwd.Run(ctx)
		}()
	} else {
		log.Info("monitor delivery disabled")
	}

	// Illuminance accumulator (optional)
	if cfg.Lux.Enabled {
		acc := lux.New(cfg.Lux, &lux.HubOpener{Client: hubClient}, rest, log)
		go func() {
			_ = acc.Run(ctx)
		}()
		log.Info("lux accumulator started", "sensor_entity", cfg.Lux.SensorEntity)
	} else {
		log.Info("lux accumulator disabled")
	}

	// HTTP API server: the hypermedia surface agents crawl.
	apiServer, err := api.New(api.Deps{
		Config:    cfg.API,
		Forwarder: cfg.Forwarder,
		Logger:    log,
		Registry:  hubClient,
		States:    rest,
		Status:    status,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Leave the monitor clean for the next run. The run context is
	// already cancelled, so the resets get their own deadline.
	if monitorClient.Enabled() {
		resetCtx, cancel := context.WithTimeout(context.Background(), shutdownResetTimeout)
		defer cancel()
		if resetErr := monitorClient.Reset(resetCtx); resetErr != nil {
			log.Warn("shutdown monitor reset failed", "error", resetErr)
		}
		if resetErr := monitorClient.ResetExplorer(resetCtx); resetErr != nil {
			log.Warn("shutdown explorer reset failed", "error", resetErr)
		}
	}

	log.Info("HMAS adapter stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HAADAPTER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HAADAPTER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// registerInitialState announces the current hub state to the monitor
// and explorer: one notification per observable property currently set,
// plus one explorer registration per artifact in an allowed area. This
// gives agents a complete picture before the first live state change.
//
// Parameters:
//   - ctx: Context for cancellation
//   - cfg: Application configuration
//   - hubClient: Hub registry reader
//   - rest: Hub state reader
//   - monitorClient: Delivery client
//   - log: Logger instance
//
// Returns:
//   - error: If the snapshot or state fetch fails; individual delivery
//     failures are logged and skipped
func registerInitialState(ctx context.Context, cfg *config.Config, hubClient *hub.Client, rest *hub.REST, monitorClient *monitor.Client, log *logging.Logger) error {
	snap, err := hubClient.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetching registry snapshot: %w", err)
	}
	idx := registry.Build(snap)

	states, err := rest.States(ctx)
	if err != nil {
		return fmt.Errorf("fetching states: %w", err)
	}

	notifications := forwarder.SnapshotNotifications(cfg.Forwarder, idx, states)
	sent := 0
	for _, n := range notifications {
		if err := ctx.Err(); err != nil {
			return err
		}
		if notifyErr := monitorClient.Notify(ctx, n); notifyErr != nil {
			log.Warn("initial notification failed",
				"artifact", n.Artifact,
				"error", notifyErr,
			)
			continue
		}
		sent++
	}
	log.Info("initial state registered", "sent", sent, "total", len(notifications))

	// Explorer registration: every artifact in an allowed area.
	var uris []string
	for _, d := range snap.Devices {
		if d.AreaID == "" || d.Name == "" || !cfg.Forwarder.AreaAllowed(d.AreaID) {
			continue
		}
		uris = append(uris, artifact.URI(cfg.Forwarder.BaseURI, d.AreaID, d.Name))
	}
	monitorClient.RegisterArtifacts(ctx, uris)
	log.Info("artifacts registered with explorer", "count", len(uris))

	return nil
}
