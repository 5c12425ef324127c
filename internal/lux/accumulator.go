package lux

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/logging"
	"github.com/hmaslab/ha-adapter/internal/services"
)

// Stream yields hub events until it fails or is closed.
type Stream interface {
	Next(ctx context.Context) (*hub.Event, error)
	Close() error
}

// Opener provides the accumulator's own event subscription. The
// accumulator never shares a stream with the forwarder.
type Opener interface {
	OpenEvents(ctx context.Context, eventType string) (Stream, error)
}

// Hub is the REST surface the accumulator writes through.
type Hub interface {
	services.Caller
	Services(ctx context.Context) ([]hub.ServiceDomain, error)
}

// Accumulator maintains a synthetic indoor illuminance sensor by
// applying deltas derived from light and cover state changes.
type Accumulator struct {
	cfg    config.LuxConfig
	opener Opener
	hub    Hub
	logger *logging.Logger

	reconnectDelay time.Duration
}

// New creates an accumulator for the configured sensor entity.
func New(cfg config.LuxConfig, opener Opener, h Hub, logger *logging.Logger) *Accumulator {
	return &Accumulator{
		cfg:            cfg,
		opener:         opener,
		hub:            h,
		logger:         logger.With("component", "lux"),
		reconnectDelay: 3 * time.Second,
	}
}

// Run drives the accumulator until ctx is cancelled. The service
// catalog is fetched once per connection cycle so a restarted hub
// cannot leave the accumulator calling vanished operations.
func (a *Accumulator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := a.cycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.Warn("accumulator cycle ended, reconnecting",
			"error", err,
			"delay", a.reconnectDelay.String(),
		)

		select {
		case <-time.After(a.reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Accumulator) cycle(ctx context.Context) error {
	raw, err := a.hub.Services(ctx)
	if err != nil {
		return fmt.Errorf("lux: service catalog: %w", err)
	}
	catalog := services.ParseCatalog(raw)

	stream, err := a.opener.OpenEvents(ctx, "state_changed")
	if err != nil {
		return fmt.Errorf("lux: subscribe: %w", err)
	}
	defer stream.Close()

	a.logger.Info("watching light and cover changes", "sensor", a.cfg.SensorEntity)

	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("lux: stream: %w", err)
		}

		d := DeltaFromEvent(a.cfg, ev)
		if d.Amount == 0 {
			continue
		}
		if err := a.Apply(ctx, catalog, d); err != nil {
			a.logger.Warn("illuminance adjust failed",
				"entity_id", ev.Event.Data.EntityID,
				"delta", d.Amount,
				"error", err,
			)
		}
	}
}

// Apply reads the sensor, applies the delta floored at zero, and
// writes the result back through service selection with direct-state
// fallback. An unparseable current value counts as zero.
func (a *Accumulator) Apply(ctx context.Context, catalog []services.Service, d Delta) error {
	current, err := a.hub.GetState(ctx, a.cfg.SensorEntity)
	if err != nil {
		return fmt.Errorf("lux: read sensor: %w", err)
	}

	cur, err := strconv.ParseFloat(current.State, 64)
	if err != nil {
		cur = 0
	}
	next := cur + float64(d.Amount)
	if next < 0 {
		next = 0
	}

	res, err := services.SetProperty(ctx, a.hub, catalog, a.cfg.SensorEntity, "state", next)
	if err != nil {
		return fmt.Errorf("lux: write sensor: %w", err)
	}

	a.logger.Info("illuminance adjusted",
		"sensor", a.cfg.SensorEntity,
		"value", next,
		"delta", d.Amount,
		"source", d.Source,
		"fallback", res.Fallback,
	)
	return nil
}
