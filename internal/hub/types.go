package hub

import (
	"encoding/json"
	"strings"
)

// Area is a named grouping of devices (a physical zone) in the hub's
// area registry. Exposed to agents as an HMAS workspace.
type Area struct {
	AreaID string `json:"area_id"`
	Name   string `json:"name"`
}

// Device is a controllable or observable physical unit in the hub's
// device registry. Exposed to agents as an HMAS artifact; its name is
// the external lookup key (first match wins on duplicates).
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	AreaID string `json:"area_id"`
}

// Entity is an individually addressable state-bearing unit belonging
// to a device. The domain is the prefix of the entity id
// ("light.desk_lamp" → domain "light").
type Entity struct {
	EntityID string `json:"entity_id"`
	DeviceID string `json:"device_id"`
	AreaID   string `json:"area_id"`
}

// Domain returns the entity's domain, derived from the entity id prefix.
func (e Entity) Domain() string {
	return EntityDomain(e.EntityID)
}

// EntityDomain returns the domain prefix of an entity id, or "" if the
// id has no domain separator.
func EntityDomain(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		return entityID[:i]
	}
	return ""
}

// ObjectID returns the local identifier segment of an entity id
// ("light.desk_lamp" → "desk_lamp").
func ObjectID(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i >= 0 {
		return entityID[i+1:]
	}
	return entityID
}

// State is an ephemeral point-in-time state of an entity. It is always
// re-fetched from the hub and never cached beyond a single operation.
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged string         `json:"last_changed"`
	LastUpdated string         `json:"last_updated"`
}

// Snapshot is a consistent point-in-time view of the device and entity
// registries, taken over a single hub connection.
type Snapshot struct {
	Devices  []Device
	Entities []Entity
}

// Event is a message received on the hub's event subscription stream.
type Event struct {
	Type  string    `json:"type"`
	Event EventBody `json:"event"`
}

// EventBody is the inner event envelope of a stream message.
type EventBody struct {
	EventType string    `json:"event_type"`
	TimeFired string    `json:"time_fired"`
	Data      EventData `json:"data"`
}

// EventData carries the state transition of a state_changed event.
type EventData struct {
	EntityID string `json:"entity_id"`
	NewState *State `json:"new_state"`
	OldState *State `json:"old_state"`
}

// ServiceDomain is one entry of the hub's raw service catalog: a
// domain and the service definitions it owns, keyed by service name.
type ServiceDomain struct {
	Domain   string                 `json:"domain"`
	Services map[string]ServiceMeta `json:"services"`
}

// ServiceMeta is the raw definition of a single hub service.
type ServiceMeta struct {
	Fields map[string]json.RawMessage `json:"fields"`
	Target *ServiceTarget             `json:"target"`
}

// ServiceTarget declares which entities a service can address.
type ServiceTarget struct {
	Entity []TargetEntity `json:"entity"`
}

// TargetEntity scopes a service target to a set of entity domains.
type TargetEntity struct {
	Domain []string `json:"domain"`
}

// wsMessage is the generic envelope of hub WebSocket traffic.
type wsMessage struct {
	ID          int64           `json:"id,omitempty"`
	Type        string          `json:"type"`
	Success     *bool           `json:"success,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       json.RawMessage `json:"error,omitempty"`
	AccessToken string          `json:"access_token,omitempty"`
	EventType   string          `json:"event_type,omitempty"`
	Event       json.RawMessage `json:"event,omitempty"`
}
