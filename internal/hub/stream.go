package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// subscribeID is the fixed command id used for the event subscription.
// The stream connection carries no other commands, so a constant is safe.
const subscribeID = 100

// EventStream is a single subscribed event connection. It is owned by
// exactly one consumer loop; Next and Close must not race except for
// the cancellation path established in OpenEvents.
type EventStream struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	done      chan struct{}
}

// OpenEvents dials an independent connection, authenticates, and
// subscribes to the given event type. The returned stream is closed
// automatically when ctx is cancelled, which unblocks a pending Next.
//
// Parameters:
//   - ctx: Governs the dial and the lifetime of the stream
//   - eventType: Hub event type to subscribe to (e.g. "state_changed")
//
// Returns:
//   - *EventStream: Subscribed stream ready for Next
//   - error: If dialing, authentication, or subscription fails
func (c *Client) OpenEvents(ctx context.Context, eventType string) (*EventStream, error) {
	conn, err := dialAndAuth(ctx, c.url, c.token)
	if err != nil {
		return nil, err
	}

	sub := struct {
		ID        int64  `json:"id"`
		Type      string `json:"type"`
		EventType string `json:"event_type"`
	}{subscribeID, "subscribe_events", eventType}

	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: subscribing: %w", ErrCallFailed, err)
	}

	// Wait for the subscription acknowledgement before handing the
	// stream over; event messages cannot arrive before it.
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: subscribing: %w", ErrCallFailed, err)
		}
		if msg.ID != subscribeID || msg.Type != "result" {
			continue
		}
		if msg.Success == nil || !*msg.Success {
			conn.Close()
			return nil, fmt.Errorf("%w: subscription rejected: %s", ErrCallFailed, string(msg.Error))
		}
		break
	}

	s := &EventStream{
		conn: conn,
		done: make(chan struct{}),
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	return s, nil
}

// Next blocks until the next event message arrives. Non-event traffic
// (acknowledgements, pongs) is skipped. When the stream is closed by
// cancellation, Next returns ctx.Err(); any other connection failure
// is reported as ErrStreamClosed.
func (s *EventStream) Next(ctx context.Context) (*Event, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %w", ErrStreamClosed, err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			// Undecodable frame: skip, the stream itself is healthy.
			continue
		}
		if ev.Type != "event" {
			continue
		}
		return &ev, nil
	}
}

// Close releases the stream connection. Safe to call more than once.
func (s *EventStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}
