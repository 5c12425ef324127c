package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hmaslab/ha-adapter/internal/artifact"
)

// handleServiceAction invokes one hub operation on the artifact's
// entity of the requested domain. The JSON body, if any, is passed
// through as service data with the entity injected.
func (s *Server) handleServiceAction(w http.ResponseWriter, r *http.Request) {
	_, entities, ok := s.resolveArtifact(w, r)
	if !ok {
		return
	}
	domain := chi.URLParam(r, "domain")
	service := chi.URLParam(r, "service")

	entityID := artifact.PickEntity(entities, domain)
	if entityID == "" {
		writeNotFound(w, "no "+domain+" entity on artifact")
		return
	}

	if !s.serviceExists(r, domain, service) {
		writeNotFound(w, "service not found for domain")
		return
	}

	payload := map[string]any{}
	if r.Body != nil {
		// A malformed or empty body degrades to an empty payload.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	payload["entity_id"] = entityID

	if err := s.states.CallService(r.Context(), domain, service, payload); err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeActionSucceeded(w)
}

// serviceExists checks the live catalog for the requested operation.
func (s *Server) serviceExists(r *http.Request, domain, service string) bool {
	raw, err := s.states.Services(r.Context())
	if err != nil {
		return false
	}
	for _, dom := range raw {
		if dom.Domain != domain {
			continue
		}
		_, ok := dom.Services[service]
		return ok
	}
	return false
}

// handleSensorAction serves the dynamic read-back affordance: the
// action name must match the one synthesised from the sensor's current
// device class and unit, and the response is the raw state as text.
func (s *Server) handleSensorAction(w http.ResponseWriter, r *http.Request) {
	actionName := chi.URLParam(r, "actionName")
	if !strings.HasPrefix(actionName, "get") || !strings.Contains(actionName[3:], "In") {
		writeNotFound(w, "unknown action")
		return
	}

	_, entities, ok := s.resolveArtifact(w, r)
	if !ok {
		return
	}

	entityID := artifact.PickEntity(entities, "sensor")
	if entityID == "" {
		writeNotFound(w, "no sensor entity on artifact")
		return
	}

	states, err := s.states.States(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	for i := range states {
		if states[i].EntityID != entityID {
			continue
		}
		st := &states[i]
		deviceClass, _ := st.Attributes["device_class"].(string)
		unit, _ := st.Attributes["unit_of_measurement"].(string)

		withClass := artifact.SensorActionName(deviceClass, unit)
		withoutClass := artifact.SensorActionName("", unit)
		if actionName != withClass && (withoutClass == "" || actionName != withoutClass) {
			writeNotFound(w, "action not applicable to this sensor")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // Best-effort write to response; connection may be closed
		w.Write([]byte(st.State))
		return
	}
	writeNotFound(w, "sensor state not found")
}

// handleFocus acknowledges workspace focus requests.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.findArea(w, r); !ok {
		return
	}
	writeActionSucceeded(w)
}

// handleHub acknowledges WebSub subscription requests. Subscriptions
// are managed by the monitor; the affordance only has to exist.
func (s *Server) handleHub(w http.ResponseWriter, _ *http.Request) {
	writeActionSucceeded(w)
}
