package services

import (
	"context"

	"github.com/hmaslab/ha-adapter/internal/hub"
)

// Caller is the slice of the hub surface needed to apply a property
// change: service invocation plus the direct state fallback.
type Caller interface {
	CallService(ctx context.Context, domain, service string, data map[string]any) error
	GetState(ctx context.Context, entityID string) (*hub.State, error)
	SetState(ctx context.Context, entityID string, state any, attributes map[string]any) error
}

// Result records how a property change was applied. Callers and logs
// must be able to tell a real operation call from the weaker direct
// overwrite, so the distinction is explicit.
type Result struct {
	EntityID string
	Property string
	Value    any

	// Service is the invoked operation, nil when the fallback was used.
	Service *Service

	// Payload is the data sent (service payload or state body).
	Payload map[string]any

	// Fallback is true when no operation matched and the recorded
	// state was overwritten directly.
	Fallback bool
}

// SetProperty applies a property change to an entity: it selects the
// best matching remote operation from the catalog and invokes it, or
// falls back to a direct state overwrite when nothing qualifies.
//
// The fallback updates the recorded value only and may not affect
// physical behaviour; Result.Fallback distinguishes the two paths.
func SetProperty(ctx context.Context, c Caller, catalog []Service, entityID, property string, value any) (*Result, error) {
	domain := hub.EntityDomain(entityID)

	if choice, ok := Select(domain, property, value, catalog); ok {
		payload := BuildPayload(choice, entityID, property, value)
		if err := c.CallService(ctx, choice.Service.Domain, choice.Service.Name, payload); err != nil {
			return nil, err
		}
		svc := choice.Service
		return &Result{
			EntityID: entityID,
			Property: property,
			Value:    value,
			Service:  &svc,
			Payload:  payload,
		}, nil
	}

	// Fallback: direct state set (ephemeral for many entities).
	current, err := c.GetState(ctx, entityID)
	if err != nil {
		return nil, err
	}

	newState := any(current.State)
	attrs := current.Attributes
	if property == "state" {
		newState = value
	} else {
		attrs = make(map[string]any, len(current.Attributes)+1)
		for k, v := range current.Attributes {
			attrs[k] = v
		}
		attrs[property] = value
	}

	if err := c.SetState(ctx, entityID, newState, attrs); err != nil {
		return nil, err
	}

	return &Result{
		EntityID: entityID,
		Property: property,
		Value:    value,
		Payload:  map[string]any{"state": newState, "attributes": attrs},
		Fallback: true,
	}, nil
}
