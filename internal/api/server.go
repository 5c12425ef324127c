// Package api exposes the adapter's hypermedia surface over HTTP.
//
// Workspaces and artifacts are published as Turtle documents, artifact
// affordances are invokable via POST, and a small operational surface
// (forwarder status, health, metrics) sits beside them.
//
// The server follows the same lifecycle pattern as the other
// long-running components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hmaslab/ha-adapter/internal/forwarder"
	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Registry is the hub registry surface the handlers read from.
type Registry interface {
	ListAreas(ctx context.Context) ([]hub.Area, error)
	DevicesInArea(ctx context.Context, areaID string) ([]hub.Device, error)
	ListEntities(ctx context.Context) ([]hub.Entity, error)
}

// States is the hub state and service surface the handlers act through.
type States interface {
	States(ctx context.Context) ([]hub.State, error)
	Services(ctx context.Context) ([]hub.ServiceDomain, error)
	CallService(ctx context.Context, domain, service string, data map[string]any) error
}

// StatusReporter exposes the forwarder's lifecycle state.
type StatusReporter interface {
	State() forwarder.State
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	Forwarder config.ForwarderConfig
	Logger    *logging.Logger
	Registry  Registry
	States    States
	Status    StatusReporter // nil when forwarding is disabled
	Version   string
}

// Server is the adapter's HTTP server.
//
// It manages the HTTP listener, routes and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	fwdCfg   config.ForwarderConfig
	logger   *logging.Logger
	registry Registry
	states   States
	status   StatusReporter
	version  string
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("hub registry is required")
	}
	if deps.States == nil {
		return nil, fmt.Errorf("hub states are required")
	}

	return &Server{
		cfg:      deps.Config,
		fwdCfg:   deps.Forwarder,
		logger:   deps.Logger.With("component", "api"),
		registry: deps.Registry,
		states:   deps.States,
		status:   deps.Status,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the listener in a background
// goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
