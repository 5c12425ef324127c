package forwarder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
	"github.com/hmaslab/ha-adapter/internal/monitor"
	"github.com/hmaslab/ha-adapter/internal/registry"
)

var errStreamDone = errors.New("stream done")

// scriptedStream yields a fixed event sequence, then fails.
type scriptedStream struct {
	events []*hub.Event
	pos    int
}

func (s *scriptedStream) Next(ctx context.Context) (*hub.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, errStreamDone
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *scriptedStream) Close() error { return nil }

type fakeSource struct {
	mu        sync.Mutex
	snap      *hub.Snapshot
	events    []*hub.Event
	snapshots int
}

func (f *fakeSource) Snapshot(ctx context.Context) (*hub.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots++
	return f.snap, nil
}

func (f *fakeSource) OpenEvents(ctx context.Context, eventType string) (Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &scriptedStream{events: f.events}, nil
}

func (f *fakeSource) snapshotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots
}

type fakeSink struct {
	mu       sync.Mutex
	got      []*monitor.Notification
	failWith error
}

func (f *fakeSink) Notify(ctx context.Context, n *monitor.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.got = append(f.got, n)
	return nil
}

func (f *fakeSink) notifications() []*monitor.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*monitor.Notification(nil), f.got...)
}

func testSnapshot() *hub.Snapshot {
	return &hub.Snapshot{
		Devices: []hub.Device{
			{ID: "dev1", Name: "Desk Lamp", AreaID: "office"},
			{ID: "dev2", Name: "Hall Sensor", AreaID: "hall"},
		},
		Entities: []hub.Entity{
			{EntityID: "light.desk_lamp", DeviceID: "dev1"},
			{EntityID: "sensor.hall_lux", DeviceID: "dev2"},
			{EntityID: "sensor.orphan", DeviceID: ""},
		},
	}
}

func stateEvent(entityID, state string, attrs map[string]any) *hub.Event {
	return &hub.Event{
		Type: "event",
		Event: hub.EventBody{
			EventType: "state_changed",
			TimeFired: "2024-05-01T10:00:00Z",
			Data: hub.EventData{
				EntityID: entityID,
				NewState: &hub.State{EntityID: entityID, State: state, Attributes: attrs},
			},
		},
	}
}

func testForwarder(cfg config.ForwarderConfig, source Source, sink Sink) *Forwarder {
	return &Forwarder{
		cfg:            cfg,
		source:         source,
		sink:           sink,
		logger:         logging.Default(),
		reconnectDelay: time.Millisecond,
	}
}

func runOneCycle(t *testing.T, f *Forwarder) {
	t.Helper()
	err := f.cycle(context.Background())
	if !errors.Is(err, errStreamDone) {
		t.Fatalf("cycle() error = %v, want stream end", err)
	}
}

func TestForwardsStateChange(t *testing.T) {
	source := &fakeSource{
		snap: testSnapshot(),
		events: []*hub.Event{
			stateEvent("light.desk_lamp", "on", nil),
		},
	}
	sink := &fakeSink{}
	cfg := config.ForwarderConfig{BaseURI: "http://host"}

	runOneCycle(t, testForwarder(cfg, source, sink))

	got := sink.notifications()
	if len(got) != 1 {
		t.Fatalf("forwarded %d notifications, want 1", len(got))
	}
	n := got[0]
	if n.ArtifactURI != "http://host/workspaces/office/artifacts/Desk%20Lamp#artifact" {
		t.Errorf("ArtifactURI = %q", n.ArtifactURI)
	}
	if n.PropertyURI != "http://host/workspaces/office/artifacts/Desk%20Lamp/props/state" {
		t.Errorf("PropertyURI = %q", n.PropertyURI)
	}
	if n.Value != true || n.ValueTypeURI != "http://www.w3.org/2001/XMLSchema#boolean" {
		t.Errorf("value = %v (%s)", n.Value, n.ValueTypeURI)
	}
	if n.Timestamp != "2024-05-01T10:00:00Z" {
		t.Errorf("Timestamp = %q", n.Timestamp)
	}
	if n.AreaID != "office" || n.Artifact != "Desk Lamp" {
		t.Errorf("routing hints = %q/%q", n.AreaID, n.Artifact)
	}
}

func TestDeviceClassBecomesProperty(t *testing.T) {
	source := &fakeSource{
		snap: testSnapshot(),
		events: []*hub.Event{
			stateEvent("sensor.hall_lux", "412.5", map[string]any{"device_class": "illuminance"}),
		},
	}
	sink := &fakeSink{}
	cfg := config.ForwarderConfig{BaseURI: "http://host"}

	runOneCycle(t, testForwarder(cfg, source, sink))

	got := sink.notifications()
	if len(got) != 1 {
		t.Fatalf("forwarded %d notifications, want 1", len(got))
	}
	if got[0].PropertyURI != "http://host/workspaces/hall/artifacts/Hall%20Sensor/props/illuminance" {
		t.Errorf("PropertyURI = %q", got[0].PropertyURI)
	}
	if got[0].Value != 412.5 {
		t.Errorf("Value = %v, want 412.5", got[0].Value)
	}
}

func TestDropsUnforwardableEvents(t *testing.T) {
	tests := []struct {
		name  string
		event *hub.Event
		areas []string
	}{
		{"wrong event type", &hub.Event{Type: "event", Event: hub.EventBody{EventType: "service_registered"}}, nil},
		{"unknown state", stateEvent("light.desk_lamp", "unknown", nil), nil},
		{"unavailable state", stateEvent("light.desk_lamp", "unavailable", nil), nil},
		{"missing new state", &hub.Event{Type: "event", Event: hub.EventBody{
			EventType: "state_changed",
			Data:      hub.EventData{EntityID: "light.desk_lamp"},
		}}, nil},
		{"unresolvable area", stateEvent("sensor.orphan", "5", nil), nil},
		{"unlisted area", stateEvent("sensor.hall_lux", "5", nil), []string{"office"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{snap: testSnapshot(), events: []*hub.Event{tt.event}}
			sink := &fakeSink{}
			cfg := config.ForwarderConfig{BaseURI: "http://host", Areas: tt.areas}

			runOneCycle(t, testForwarder(cfg, source, sink))

			if got := sink.notifications(); len(got) != 0 {
				t.Errorf("forwarded %d notifications, want 0", len(got))
			}
		})
	}
}

func TestDeliveryFailureDropsEvent(t *testing.T) {
	source := &fakeSource{
		snap: testSnapshot(),
		events: []*hub.Event{
			stateEvent("light.desk_lamp", "on", nil),
			stateEvent("light.desk_lamp", "off", nil),
		},
	}
	sink := &fakeSink{failWith: errors.New("monitor down")}
	cfg := config.ForwarderConfig{BaseURI: "http://host"}

	f := testForwarder(cfg, source, sink)
	// A failing sink must not end the cycle.
	runOneCycle(t, f)
}

func TestRunReconnectsAndRebuilds(t *testing.T) {
	source := &fakeSource{snap: testSnapshot()}
	sink := &fakeSink{}
	cfg := config.ForwarderConfig{BaseURI: "http://host"}

	f := testForwarder(cfg, source, sink)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for source.snapshotCount() < 3 {
		select {
		case <-deadline:
			t.Fatal("forwarder never reconnected")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if f.State() != StateDisconnected {
		t.Errorf("State() = %v after Run, want disconnected", f.State())
	}
}

func TestSnapshotNotifications(t *testing.T) {
	idx := registry.Build(testSnapshot())
	cfg := config.ForwarderConfig{BaseURI: "http://host", Areas: []string{"office"}}

	// Only the two desk lamp states survive: the hall sensor sits in a
	// disallowed area, one state is unavailable, the orphan has no area.
	states := []hub.State{
		{EntityID: "light.desk_lamp", State: "on", LastChanged: "2024-05-01T09:00:00Z"},
		{EntityID: "sensor.hall_lux", State: "300"},
		{EntityID: "light.desk_lamp", State: "unavailable"},
		{EntityID: "sensor.orphan", State: "1"},
		{EntityID: "light.desk_lamp", State: "off", LastUpdated: "2024-05-01T09:30:00Z"},
	}

	got := SnapshotNotifications(cfg, idx, states)
	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].Timestamp != "2024-05-01T09:00:00Z" {
		t.Errorf("timestamp = %q", got[0].Timestamp)
	}
	if got[1].Timestamp != "2024-05-01T09:30:00Z" {
		t.Errorf("fallback timestamp = %q", got[1].Timestamp)
	}
}

func TestStateString(t *testing.T) {
	if StateDisconnected.String() != "disconnected" ||
		StateConnecting.String() != "connecting" ||
		StateSubscribed.String() != "subscribed" {
		t.Error("unexpected state names")
	}
}
