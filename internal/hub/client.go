package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
)

// Client is a command client for the hub's WebSocket API.
//
// It lazily establishes an authenticated connection on first use and
// keeps it open across calls. A failed call drops the connection so
// the next call re-dials. Registry listings and other command calls
// are serialised over the single connection.
//
// Thread Safety:
//   - All methods are safe for concurrent use; calls are serialised.
//
// Event subscriptions do not share this connection: each call to
// OpenEvents dials an independent connection owned by the returned
// stream (one stream consumer per connection).
type Client struct {
	url   string
	token string

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64
}

// NewClient creates a hub command client. No connection is made until
// the first call.
func NewClient(cfg config.HubConfig) *Client {
	return &Client{
		url:   cfg.WebSocketURL,
		token: cfg.Token,
	}
}

// dialAndAuth dials the hub and completes the token handshake:
// auth_required → auth → auth_ok.
func dialAndAuth(ctx context.Context, url, token string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}

	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	if msg.Type != "auth_required" {
		conn.Close()
		return nil, fmt.Errorf("%w: unexpected message %q", ErrHandshakeFailed, msg.Type)
	}

	if err := conn.WriteJSON(wsMessage{Type: "auth", AccessToken: token}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	if msg.Type != "auth_ok" {
		conn.Close()
		return nil, ErrAuthFailed
	}

	return conn, nil
}

// ensure establishes the command connection if it is not already open.
// Callers must hold c.mu.
func (c *Client) ensure(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	conn, err := dialAndAuth(ctx, c.url, c.token)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// call sends a typed command and waits for its id-matched result.
// Any transport error drops the connection so the next call re-dials.
func (c *Client) call(ctx context.Context, msgType string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	c.nextID++
	id := c.nextID

	if err := c.conn.WriteJSON(wsMessage{ID: id, Type: msgType}); err != nil {
		c.drop()
		return nil, fmt.Errorf("%w: %w", ErrCallFailed, err)
	}

	for {
		select {
		case <-ctx.Done():
			c.drop()
			return nil, ctx.Err()
		default:
		}

		var msg wsMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.drop()
			return nil, fmt.Errorf("%w: %w", ErrCallFailed, err)
		}
		if msg.ID != id || msg.Type != "result" {
			continue
		}
		if msg.Success == nil || !*msg.Success {
			return nil, fmt.Errorf("%w: %s: %s", ErrCallFailed, msgType, string(msg.Error))
		}
		return msg.Result, nil
	}
}

// drop closes and forgets the command connection. Callers must hold c.mu.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// ListAreas returns the hub's area registry.
func (c *Client) ListAreas(ctx context.Context) ([]Area, error) {
	raw, err := c.call(ctx, "config/area_registry/list")
	if err != nil {
		return nil, err
	}
	var areas []Area
	if err := json.Unmarshal(raw, &areas); err != nil {
		return nil, fmt.Errorf("%w: decoding areas: %w", ErrCallFailed, err)
	}
	return areas, nil
}

// ListDevices returns the hub's device registry.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	raw, err := c.call(ctx, "config/device_registry/list")
	if err != nil {
		return nil, err
	}
	var devices []Device
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("%w: decoding devices: %w", ErrCallFailed, err)
	}
	return devices, nil
}

// ListEntities returns the hub's entity registry.
func (c *Client) ListEntities(ctx context.Context) ([]Entity, error) {
	raw, err := c.call(ctx, "config/entity_registry/list")
	if err != nil {
		return nil, err
	}
	var entities []Entity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("%w: decoding entities: %w", ErrCallFailed, err)
	}
	return entities, nil
}

// DevicesInArea returns the devices assigned to the given area.
func (c *Client) DevicesInArea(ctx context.Context, areaID string) ([]Device, error) {
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	var out []Device
	for _, d := range devices {
		if d.AreaID == areaID {
			out = append(out, d)
		}
	}
	return out, nil
}

// Snapshot fetches the device and entity registries over the same
// connection, yielding one consistent point-in-time view.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	entities, err := c.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Devices: devices, Entities: entities}, nil
}

// Close releases the command connection, if open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drop()
	return nil
}
