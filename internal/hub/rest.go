package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
)

// REST is a client for the hub's REST API: state listings, the service
// catalog, service invocation, and direct state writes.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type REST struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewREST creates a hub REST client from configuration.
func NewREST(cfg config.HubConfig) *REST {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}
	base := cfg.BaseURL
	if base == "" {
		base = config.DeriveBaseURL(cfg.WebSocketURL)
	}
	return &REST{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// States returns the current state of every entity on the hub.
func (r *REST) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := r.getJSON(ctx, "/api/states", &states); err != nil {
		return nil, err
	}
	return states, nil
}

// GetState returns the current state of a single entity.
func (r *REST) GetState(ctx context.Context, entityID string) (*State, error) {
	var state State
	path := "/api/states/" + url.PathEscape(entityID)
	if err := r.getJSON(ctx, path, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Services returns the hub's raw service catalog.
func (r *REST) Services(ctx context.Context) ([]ServiceDomain, error) {
	var services []ServiceDomain
	if err := r.getJSON(ctx, "/api/services", &services); err != nil {
		return nil, err
	}
	return services, nil
}

// CallService invokes a remote operation on the hub.
//
// Parameters:
//   - domain: Owning namespace of the service (e.g. "light")
//   - service: Service name (e.g. "turn_on")
//   - data: Invocation payload, including the entity key
func (r *REST) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	return r.postJSON(ctx, path, data, nil)
}

// SetState overwrites an entity's recorded state and attributes
// directly, bypassing remote operations. This is semantically weaker
// than a service call: it updates the recorded value only and may not
// affect physical behaviour.
func (r *REST) SetState(ctx context.Context, entityID string, state any, attributes map[string]any) error {
	path := "/api/states/" + url.PathEscape(entityID)
	body := map[string]any{
		"state":      state,
		"attributes": attributes,
	}
	return r.postJSON(ctx, path, body, nil)
}

// getJSON performs an authenticated GET and decodes the response body.
func (r *REST) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	r.setHeaders(req)

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: status %d", ErrRequestFailed, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding GET %s: %w", ErrRequestFailed, path, err)
	}
	return nil
}

// postJSON performs an authenticated POST with a JSON body. When out
// is non-nil the response body is decoded into it.
func (r *REST) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encoding POST %s: %w", ErrRequestFailed, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	r.setHeaders(req)

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %w", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: POST %s: status %d", ErrRequestFailed, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding POST %s: %w", ErrRequestFailed, path, err)
		}
	} else {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return nil
}

// setHeaders applies the bearer token and content type to a request.
func (r *REST) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
}
