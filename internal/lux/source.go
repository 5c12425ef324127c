package lux

import (
	"context"

	"github.com/hmaslab/ha-adapter/internal/hub"
)

// HubOpener adapts the hub command client to the Opener interface.
type HubOpener struct {
	Client *hub.Client
}

// OpenEvents opens a dedicated event subscription connection.
func (o *HubOpener) OpenEvents(ctx context.Context, eventType string) (Stream, error) {
	return o.Client.OpenEvents(ctx, eventType)
}
