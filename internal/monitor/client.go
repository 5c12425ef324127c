package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
)

// retryDelays is the bounded backoff schedule for reset posts, in
// seconds before each attempt.
var retryDelays = []time.Duration{0, 1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}

// Publisher mirrors delivered notifications to a secondary channel,
// typically an MQTT broker. Implementations must tolerate being called
// concurrently.
type Publisher interface {
	PublishNotification(areaID, artifact string, body []byte) error
}

// Client delivers notifications and lifecycle signals to the external
// monitor and environment explorer over HTTP.
type Client struct {
	monitorURL  string
	explorerURL string
	http        *http.Client
	logger      *logging.Logger

	// mirror is optional; nil disables mirroring.
	mirror Publisher
}

// NewClient creates a monitor client from configuration. An empty
// monitor URL yields a client whose Notify returns ErrNotConfigured;
// Enabled lets callers skip delivery cheaply.
func NewClient(cfg config.MonitorConfig, logger *logging.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		monitorURL:  cfg.URL,
		explorerURL: cfg.ExplorerURL,
		http:        &http.Client{Timeout: timeout},
		logger:      logger.With("component", "monitor"),
	}
}

// SetMirror attaches an optional secondary publisher. Must be called
// before the client is shared between goroutines.
func (c *Client) SetMirror(p Publisher) {
	c.mirror = p
}

// Enabled reports whether a monitor URL is configured.
func (c *Client) Enabled() bool {
	return c.monitorURL != ""
}

// Notify delivers one notification to the monitor. Delivery is
// at-most-once: an error means the update was dropped, and the caller
// decides whether that matters.
func (c *Client) Notify(ctx context.Context, n *Notification) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("monitor: encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.monitorURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("monitor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-Type", notificationType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	if c.mirror != nil {
		if err := c.mirror.PublishNotification(n.AreaID, n.Artifact, body); err != nil {
			c.logger.Warn("notification mirror failed", "artifact", n.Artifact, "error", err)
		}
	}
	return nil
}

// Reset asks the monitor to discard its registered state. Retries on
// the fixed schedule; gives up after the last attempt.
func (c *Client) Reset(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	url := c.monitorURL
	if !strings.HasSuffix(strings.TrimRight(url, "/"), "/reset") {
		url = strings.TrimRight(url, "/") + "/reset"
	}
	return c.postWithRetries(ctx, url, "monitor reset")
}

// ResetExplorer asks the environment explorer to discard registered
// workspaces. No-op when no explorer is configured.
func (c *Client) ResetExplorer(ctx context.Context) error {
	if c.explorerURL == "" {
		return nil
	}
	url := c.explorerURL
	if !strings.HasSuffix(strings.TrimRight(url, "/"), "/admin/reset") {
		url = strings.TrimRight(url, "/") + "/admin/reset"
	}
	return c.postWithRetries(ctx, url, "explorer reset")
}

// RegisterArtifacts posts each artifact URI to the explorer. Individual
// failures are logged and skipped so one bad URI never blocks the rest.
func (c *Client) RegisterArtifacts(ctx context.Context, uris []string) {
	if c.explorerURL == "" {
		return
	}
	for _, uri := range uris {
		body, _ := json.Marshal(map[string]string{"uri": uri})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.explorerURL, bytes.NewReader(body))
		if err != nil {
			c.logger.Warn("explorer registration failed", "uri", uri, "error", err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Warn("explorer registration failed", "uri", uri, "error", err)
			continue
		}
		drain(resp)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Warn("explorer registration rejected", "uri", uri, "status", resp.StatusCode)
		}
	}
}

// postWithRetries issues an empty POST following the reset schedule.
func (c *Client) postWithRetries(ctx context.Context, url, what string) error {
	var lastErr error
	for attempt, delay := range retryDelays {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrResetFailed, err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn(what+" attempt failed", "attempt", attempt+1, "error", err)
			continue
		}
		drain(resp)
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.logger.Info(what+" acknowledged", "attempt", attempt+1)
			return nil
		}
		lastErr = fmt.Errorf("status %d", resp.StatusCode)
		c.logger.Warn(what+" attempt failed", "attempt", attempt+1, "status", resp.StatusCode)
	}
	return fmt.Errorf("%w: %s: %v", ErrResetFailed, what, lastErr)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
