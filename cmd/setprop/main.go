// setprop sets a property on a hub artifact (device) by display name.
//
// Usage:
//
//	setprop "<artifact_name>" "<property>" "<value>"
//
// The value is parsed as JSON when possible (numbers, booleans, null,
// objects), otherwise passed through as a string. Property changes go
// through the same operation selection the adapter uses: the best
// matching hub service when one qualifies, a direct state overwrite
// otherwise.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/services"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: setprop <artifact_name> <property> <value>")
		os.Exit(2)
	}
	artifactName, property, rawValue := args[0], args[1], args[2]
	value := parseValue(rawValue)

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client := hub.NewClient(cfg.Hub)
	defer client.Close()
	rest := hub.NewREST(cfg.Hub)

	// Resolve device → entity over the registries.
	snap, err := client.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetching registry snapshot: %w", err)
	}

	var device *hub.Device
	for i := range snap.Devices {
		if snap.Devices[i].Name == artifactName {
			device = &snap.Devices[i]
			break
		}
	}
	if device == nil {
		return fmt.Errorf("artifact not found: %s", artifactName)
	}

	var owned []hub.Entity
	for _, e := range snap.Entities {
		if e.DeviceID == device.ID {
			owned = append(owned, e)
		}
	}
	if len(owned) == 0 {
		return fmt.Errorf("no entities found for artifact: %s", artifactName)
	}

	fmt.Printf("Resolved device: %s (%s)\n", device.Name, device.ID)
	for _, e := range owned {
		fmt.Println(" -", e.EntityID)
	}

	entityID := pickEntity(owned, preferredDomains(property))
	fmt.Println("Chosen entity:", entityID)

	raw, err := rest.Services(ctx)
	if err != nil {
		return fmt.Errorf("fetching service catalog: %w", err)
	}
	catalog := services.ParseCatalog(raw)

	result, err := services.SetProperty(ctx, rest, catalog, entityID, property, value)
	if err != nil {
		return fmt.Errorf("setting property: %w", err)
	}

	if result.Fallback {
		fmt.Println("No matching operation; state overwritten directly")
	} else {
		fmt.Printf("Called service: %s\n", result.Service.Key())
	}
	payload, _ := json.MarshalIndent(result.Payload, "", "  ")
	fmt.Println("Payload:", string(payload))
	return nil
}

// preferredDomains biases entity selection toward the domain most
// likely to own the requested property.
func preferredDomains(property string) map[string]struct{} {
	switch property {
	case "state":
		return map[string]struct{}{
			"light": {}, "switch": {}, "fan": {}, "cover": {}, "input_boolean": {},
		}
	case "brightness", "brightness_pct":
		return map[string]struct{}{"light": {}}
	}
	return nil
}

// pickEntity returns the first entity in a preferred domain, falling
// back to the first entity overall.
func pickEntity(entities []hub.Entity, preferred map[string]struct{}) string {
	if preferred != nil {
		for _, e := range entities {
			if _, ok := preferred[hub.EntityDomain(e.EntityID)]; ok {
				return e.EntityID
			}
		}
	}
	return entities[0].EntityID
}

// parseValue interprets the raw argument as JSON when possible so
// numbers, booleans, null and objects survive; anything else stays a
// plain string ("on", "off", ...).
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// getConfigPath returns the configuration file path.
// Uses HAADAPTER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HAADAPTER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
