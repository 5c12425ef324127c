package services

import (
	"fmt"
	"strings"
)

// Scoring weights for Phase B candidate ranking.
const (
	scoreVirtualDomain = 5 // service lives in the virtual namespace
	scoreSetterName    = 3 // service name contains "set"
	scorePropertyField = 3 // requested property is a declared field
	scoreValueField    = 2 // requesting "state" and a generic "value" field exists
	scoreDomainMatch   = 1 // owning namespace equals the entity domain

	// shortcutScore marks Phase A choices; it outranks any Phase B sum.
	shortcutScore = 100
)

// onOffDomains are the entity domains whose "state" property maps
// directly to canonical turn_on/turn_off operations.
var onOffDomains = map[string]struct{}{
	"light":         {},
	"switch":        {},
	"fan":           {},
	"input_boolean": {},
}

var (
	onValues  = map[string]struct{}{"on": {}, "true": {}, "1": {}, "open": {}}
	offValues = map[string]struct{}{"off": {}, "false": {}, "0": {}, "closed": {}, "close": {}}
)

// Choice is a selected remote operation with its ranking score.
type Choice struct {
	Service Service
	Score   int

	// Shortcut marks a Phase A on/off selection whose payload carries
	// no value: the operation name itself encodes the desired state.
	Shortcut bool
}

// Select picks the remote operation best matching a requested
// property/value change on an entity of the given domain.
//
// Phase A short-circuits boolean-style state changes on on/off-capable
// domains to the canonical turn_on/turn_off (or open/close cover)
// operations, bypassing scoring.
//
// Phase B scores every applicable catalog entry; candidates with score
// zero are excluded. Ties are broken lexically by domain and name so
// repeated calls over the same catalog always yield the same choice.
//
// Returns:
//   - *Choice: The winning operation, nil when nothing qualifies
//   - bool: false signals "no match"; the caller falls back to a
//     direct state overwrite
func Select(entityDomain, property string, value any, catalog []Service) (*Choice, bool) {
	if property == "state" {
		if c := shortcutChoice(entityDomain, value); c != nil {
			return c, true
		}
	}

	var best *Choice
	for _, svc := range catalog {
		if !svc.AppliesTo(entityDomain) {
			continue
		}

		score := 0
		if svc.Domain == VirtualDomain {
			score += scoreVirtualDomain
		}
		if strings.Contains(svc.Name, "set") {
			score += scoreSetterName
		}
		if svc.HasField(property) {
			score += scorePropertyField
		}
		if property == "state" && svc.HasField("value") {
			score += scoreValueField
		}
		if svc.Domain == entityDomain {
			score += scoreDomainMatch
		}
		if score == 0 {
			continue
		}

		// Catalog order is lexical, so on equal scores the first seen
		// candidate is also the lexically smallest.
		if best == nil || score > best.Score {
			best = &Choice{Service: svc, Score: score}
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// shortcutChoice maps a normalised desired state to a canonical on/off
// operation for domains that support one. Returns nil when the domain
// or value is outside the shortcut table.
func shortcutChoice(entityDomain string, value any) *Choice {
	desired := strings.ToLower(strings.TrimSpace(fmt.Sprint(value)))

	var name string
	if _, ok := onOffDomains[entityDomain]; ok {
		if _, on := onValues[desired]; on {
			name = "turn_on"
		} else if _, off := offValues[desired]; off {
			name = "turn_off"
		}
	} else if entityDomain == "cover" {
		switch desired {
		case "open":
			name = "open_cover"
		case "closed", "close":
			name = "close_cover"
		}
	}
	if name == "" {
		return nil
	}

	return &Choice{
		Service: Service{
			Domain: entityDomain,
			Name:   name,
			Fields: map[string]struct{}{"entity_id": {}},
		},
		Score:    shortcutScore,
		Shortcut: true,
	}
}

// BuildPayload constructs the invocation payload for a chosen service.
// The payload always carries the entity key. The value is attached
// under the generic "value" field when declared, else under the field
// matching the requested property, else under the property name as a
// catch-all. Shortcut operations encode the value in the operation
// name and carry the entity key only.
func BuildPayload(c *Choice, entityID, property string, value any) map[string]any {
	payload := map[string]any{"entity_id": entityID}
	if c.Shortcut {
		return payload
	}

	switch {
	case c.Service.HasField("value"):
		payload["value"] = value
	case c.Service.HasField(property):
		payload[property] = value
	default:
		payload[property] = value
	}
	return payload
}
