package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hmaslab/ha-adapter/internal/artifact"
	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/services"
)

// resolveArtifact maps a workspace/artifact path pair to the hub device
// it names and the entities attached to it. The artifact name is the
// device's display name, percent-decoded from the path.
func (s *Server) resolveArtifact(w http.ResponseWriter, r *http.Request) (hub.Device, []hub.Entity, bool) {
	workspaceID := chi.URLParam(r, "workspaceID")
	name := chi.URLParam(r, "artifactName")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	devices, err := s.registry.DevicesInArea(r.Context(), workspaceID)
	if err != nil {
		writeInternalError(w, err.Error())
		return hub.Device{}, nil, false
	}

	var dev hub.Device
	found := false
	for _, d := range devices {
		if d.Name == name {
			dev = d
			found = true
			break
		}
	}
	if !found {
		writeNotFound(w, "artifact not found")
		return hub.Device{}, nil, false
	}

	entities, err := s.registry.ListEntities(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return hub.Device{}, nil, false
	}
	var owned []hub.Entity
	for _, e := range entities {
		if e.DeviceID == dev.ID {
			owned = append(owned, e)
		}
	}
	return dev, owned, true
}

// handleGetArtifact publishes the full artifact description: type,
// title, security configuration and every affordance the synthesizer
// derives from the live service catalog and sensor states.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	dev, entities, ok := s.resolveArtifact(w, r)
	if !ok {
		return
	}
	workspaceID := chi.URLParam(r, "workspaceID")

	raw, err := s.states.Services(r.Context())
	if err != nil {
		// The catalog is an enrichment; a description without
		// service affordances is still useful.
		raw = nil
	}
	catalog := services.ParseCatalog(raw)

	var stateMap map[string]*hub.State
	if states, err := s.states.States(r.Context()); err == nil {
		stateMap = make(map[string]*hub.State, len(states))
		for i := range states {
			stateMap[states[i].EntityID] = &states[i]
		}
	}

	base := requestBase(r)
	desc := artifact.Describe(dev, entities, catalog, stateMap, base, workspaceID)
	writeTurtle(w, desc.Graph(base).Turtle())
}

// handleUpdateArtifact acknowledges representation updates. Artifact
// state lives in the hub; the representation itself is derived, so
// there is nothing to store.
func (s *Server) handleUpdateArtifact(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := s.resolveArtifact(w, r); !ok {
		return
	}
	writeActionSucceeded(w)
}

// handleDeleteArtifact acknowledges representation deletes.
func (s *Server) handleDeleteArtifact(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := s.resolveArtifact(w, r); !ok {
		return
	}
	writeActionSucceeded(w)
}

// writeActionSucceeded writes the plain acknowledgement agents expect
// from affordance invocations.
func writeActionSucceeded(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write([]byte("Action succeeded:"))
}
