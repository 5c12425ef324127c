package monitor

import "errors"

var (
	// ErrNotConfigured indicates the monitor URL is empty and delivery
	// is disabled.
	ErrNotConfigured = errors.New("monitor: not configured")

	// ErrDeliveryFailed indicates the monitor rejected or never
	// received a notification.
	ErrDeliveryFailed = errors.New("monitor: delivery failed")

	// ErrResetFailed indicates a reset was not acknowledged within the
	// bounded retry schedule.
	ErrResetFailed = errors.New("monitor: reset failed")
)
