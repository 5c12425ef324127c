package forwarder

import (
	"context"

	"github.com/hmaslab/ha-adapter/internal/hub"
)

// HubSource adapts the hub command client to the Source interface.
type HubSource struct {
	Client *hub.Client
}

// Snapshot fetches the device and entity registries.
func (s *HubSource) Snapshot(ctx context.Context) (*hub.Snapshot, error) {
	return s.Client.Snapshot(ctx)
}

// OpenEvents opens a dedicated event subscription connection.
func (s *HubSource) OpenEvents(ctx context.Context, eventType string) (Stream, error) {
	return s.Client.OpenEvents(ctx, eventType)
}
