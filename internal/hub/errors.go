package hub

import "errors"

// Domain-specific errors for hub operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrHandshakeFailed is returned when the WebSocket handshake does
	// not follow the auth_required/auth/auth_ok sequence.
	ErrHandshakeFailed = errors.New("hub: websocket handshake failed")

	// ErrAuthFailed is returned when the hub rejects the access token.
	ErrAuthFailed = errors.New("hub: authentication failed")

	// ErrCallFailed is returned when a command call is answered with
	// success=false.
	ErrCallFailed = errors.New("hub: call failed")

	// ErrStreamClosed is returned when the event stream connection is
	// closed while waiting for an event.
	ErrStreamClosed = errors.New("hub: event stream closed")

	// ErrRequestFailed is returned when a REST request is answered with
	// a non-2xx status.
	ErrRequestFailed = errors.New("hub: request failed")
)
