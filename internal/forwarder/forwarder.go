package forwarder

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
	"github.com/hmaslab/ha-adapter/internal/monitor"
	"github.com/hmaslab/ha-adapter/internal/registry"
)

// State is the forwarder's connection lifecycle state.
type State int32

// Lifecycle states. The forwarder moves Disconnected → Connecting →
// Subscribed, and falls back to Disconnected on any stream failure.
const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
)

// String returns the state name for logs and the status endpoint.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	default:
		return "disconnected"
	}
}

// Stream yields hub events until it fails or is closed.
type Stream interface {
	Next(ctx context.Context) (*hub.Event, error)
	Close() error
}

// Source provides the registry snapshot and the event subscription the
// forwarder runs on.
type Source interface {
	Snapshot(ctx context.Context) (*hub.Snapshot, error)
	OpenEvents(ctx context.Context, eventType string) (Stream, error)
}

// Sink receives the notifications built from hub events.
type Sink interface {
	Notify(ctx context.Context, n *monitor.Notification) error
}

// Forwarder subscribes to hub state changes and forwards them to the
// monitor as observable-property notifications.
//
// One registry index is built per connection cycle and is never
// mutated while in use; a reconnect always rebuilds it from a fresh
// snapshot, so registry drift heals on the next cycle at the latest.
type Forwarder struct {
	cfg    config.ForwarderConfig
	source Source
	sink   Sink
	logger *logging.Logger

	reconnectDelay time.Duration
	state          atomic.Int32
}

// New creates a forwarder. The reconnect delay comes from config with a
// 3 second default.
func New(cfg config.ForwarderConfig, source Source, sink Sink, logger *logging.Logger) *Forwarder {
	delay := time.Duration(cfg.ReconnectDelay) * time.Second
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Forwarder{
		cfg:            cfg,
		source:         source,
		sink:           sink,
		logger:         logger.With("component", "forwarder"),
		reconnectDelay: delay,
	}
}

// State returns the current lifecycle state. Safe for concurrent use.
func (f *Forwarder) State() State {
	return State(f.state.Load())
}

func (f *Forwarder) setState(s State) {
	f.state.Store(int32(s))
}

// Run drives the forward loop until ctx is cancelled. Each cycle
// connects, rebuilds the registry index, subscribes and forwards
// events; any failure tears the cycle down and a new one starts after
// the fixed reconnect delay. The returned error is always ctx.Err().
func (f *Forwarder) Run(ctx context.Context) error {
	defer f.setState(StateDisconnected)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f.setState(StateConnecting)
		err := f.cycle(ctx)
		f.setState(StateDisconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		reconnectsTotal.Inc()
		f.logger.Warn("forward cycle ended, reconnecting",
			"error", err,
			"delay", f.reconnectDelay.String(),
		)

		select {
		case <-time.After(f.reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// cycle runs one connection lifetime: snapshot, subscribe, forward.
func (f *Forwarder) cycle(ctx context.Context) error {
	snap, err := f.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("forwarder: snapshot: %w", err)
	}
	idx := registry.Build(snap)

	stream, err := f.source.OpenEvents(ctx, "state_changed")
	if err != nil {
		return fmt.Errorf("forwarder: subscribe: %w", err)
	}
	defer stream.Close()

	f.setState(StateSubscribed)
	f.logger.Info("subscribed to state changes",
		"devices", len(snap.Devices),
		"entities", len(snap.Entities),
	)

	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("forwarder: stream: %w", err)
		}
		f.handleEvent(ctx, idx, ev)
	}
}

// handleEvent filters one stream event and forwards it if it survives.
// Delivery is at-most-once: a failed notify is logged and dropped.
func (f *Forwarder) handleEvent(ctx context.Context, idx *registry.Index, ev *hub.Event) {
	eventsReceived.Inc()

	if ev.Event.EventType != "state_changed" {
		f.drop("event_type")
		return
	}

	data := ev.Event.Data
	st := data.NewState
	if data.EntityID == "" || st == nil || st.State == "" || st.State == "unknown" || st.State == "unavailable" {
		f.drop("state")
		return
	}

	areaID, ok := idx.Area(data.EntityID)
	if !ok || !f.cfg.AreaAllowed(areaID) {
		f.drop("area")
		return
	}

	n := BuildNotification(f.cfg.BaseURI, areaID, idx.DisplayName(data.EntityID), st, ev.Event.TimeFired)

	if err := f.sink.Notify(ctx, n); err != nil {
		f.drop("delivery")
		f.logger.Warn("notification delivery failed",
			"entity_id", data.EntityID,
			"artifact", n.Artifact,
			"error", err,
		)
		return
	}

	eventsForwarded.Inc()
	f.logger.Debug("forwarded state change",
		"entity_id", data.EntityID,
		"artifact", n.Artifact,
		"property", n.PropertyURI,
	)
}

func (f *Forwarder) drop(reason string) {
	eventsDropped.WithLabelValues(reason).Inc()
}
