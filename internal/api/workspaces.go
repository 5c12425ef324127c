package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmaslab/ha-adapter/internal/artifact"
	"github.com/hmaslab/ha-adapter/internal/hub"
)

// requestBase derives the document base URL from the incoming request,
// so minted IRIs dereference back to this server regardless of how it
// is reached.
func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + "/"
}

// handleListWorkspaces publishes every area as a workspace.
func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	areas, err := s.registry.ListAreas(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeTurtle(w, artifact.WorkspacesGraph(areas, requestBase(r)).Turtle())
}

// handleGetWorkspace publishes one area with its contained artifacts.
func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	area, ok := s.findArea(w, r)
	if !ok {
		return
	}

	devices, err := s.registry.DevicesInArea(r.Context(), area.AreaID)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeTurtle(w, artifact.WorkspaceGraph(area, devices, requestBase(r)).Turtle())
}

// handleListArtifacts publishes the artifact directory of one workspace.
func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	area, ok := s.findArea(w, r)
	if !ok {
		return
	}

	devices, err := s.registry.DevicesInArea(r.Context(), area.AreaID)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeTurtle(w, artifact.ArtifactsGraph(area, devices, requestBase(r)).Turtle())
}

// findArea resolves the workspace path parameter to a hub area,
// writing the error response itself when resolution fails.
func (s *Server) findArea(w http.ResponseWriter, r *http.Request) (hub.Area, bool) {
	workspaceID := chi.URLParam(r, "workspaceID")

	areas, err := s.registry.ListAreas(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return hub.Area{}, false
	}
	for _, a := range areas {
		if a.AreaID == workspaceID {
			return a, true
		}
	}
	writeNotFound(w, "workspace not found")
	return hub.Area{}, false
}
