package lux

import (
	"strings"

	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
)

// Delta is one illuminance adjustment derived from a state change.
type Delta struct {
	// Amount is the signed lux change; zero means no adjustment.
	Amount int

	// Source names the contributing domain ("light" or "cover").
	Source string
}

// DeltaFromEvent reduces a state change to an illuminance delta.
//
// Rules, first match wins:
//   - light turning on/off contributes ±the light increments
//   - a cover opening/open or closing/closed contributes ±the blinds
//     increments
//   - otherwise a cover's current_position attribute is compared with
//     the previous state; a higher position lets light in
//
// Everything else yields a zero delta.
func DeltaFromEvent(cfg config.LuxConfig, ev *hub.Event) Delta {
	data := ev.Event.Data
	st := data.NewState
	if data.EntityID == "" || st == nil {
		return Delta{}
	}
	state := strings.ToLower(st.State)

	switch hub.EntityDomain(data.EntityID) {
	case "light":
		switch state {
		case "on":
			return Delta{Amount: cfg.LightIncrement, Source: "light"}
		case "off":
			return Delta{Amount: -cfg.LightDecrement, Source: "light"}
		}
	case "cover":
		switch state {
		case "opening", "open":
			return Delta{Amount: cfg.BlindsIncrement, Source: "cover"}
		case "closing", "closed":
			return Delta{Amount: -cfg.BlindsDecrement, Source: "cover"}
		}
		newPos, okNew := position(st)
		oldPos, okOld := position(data.OldState)
		if okNew && okOld {
			if newPos > oldPos {
				return Delta{Amount: cfg.BlindsIncrement, Source: "cover"}
			}
			if newPos < oldPos {
				return Delta{Amount: -cfg.BlindsDecrement, Source: "cover"}
			}
		}
	}
	return Delta{}
}

// position extracts a cover's current_position attribute.
func position(st *hub.State) (float64, bool) {
	if st == nil {
		return 0, false
	}
	switch v := st.Attributes["current_position"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
