package api

import (
	"net/http"
	"sort"
)

// forwarderStatus is the operational snapshot served for debugging.
type forwarderStatus struct {
	Enabled bool     `json:"enabled"`
	State   string   `json:"state"`
	Areas   []string `json:"areas"`
	BaseURI string   `json:"baseUri"`
}

// handleForwarderStatus reports whether forwarding is enabled and the
// current connection lifecycle state.
func (s *Server) handleForwarderStatus(w http.ResponseWriter, _ *http.Request) {
	areas := append([]string(nil), s.fwdCfg.Areas...)
	sort.Strings(areas)
	if areas == nil {
		areas = []string{}
	}

	status := forwarderStatus{
		Enabled: s.status != nil,
		State:   "disabled",
		Areas:   areas,
		BaseURI: s.fwdCfg.BaseURI,
	}
	if s.status != nil {
		status.State = s.status.State().String()
	}
	writeJSON(w, http.StatusOK, status)
}
