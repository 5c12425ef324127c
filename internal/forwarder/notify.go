package forwarder

import (
	"github.com/hmaslab/ha-adapter/internal/artifact"
	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/infrastructure/config"
	"github.com/hmaslab/ha-adapter/internal/monitor"
	"github.com/hmaslab/ha-adapter/internal/registry"
	"github.com/hmaslab/ha-adapter/internal/value"
)

// BuildNotification mints the observable-property update for one state.
// The property is the state's device_class when present, "state"
// otherwise, and the value is classified into its typed form.
func BuildNotification(baseURI, areaID, name string, st *hub.State, timestamp string) *monitor.Notification {
	prop := "state"
	if dc, ok := st.Attributes["device_class"].(string); ok && dc != "" {
		prop = dc
	}

	v, vt := value.Classify(st.State)

	return &monitor.Notification{
		ArtifactURI:  artifact.URI(baseURI, areaID, name),
		PropertyURI:  artifact.PropertyURI(baseURI, areaID, name, prop),
		Value:        v,
		ValueTypeURI: vt.URI(),
		Timestamp:    timestamp,
		TriggerURI:   artifact.TriggerURI(baseURI, areaID, name),
		AreaID:       areaID,
		Artifact:     name,
	}
}

// SnapshotNotifications builds the startup registration set: one
// notification per current state in an allowed area, using the same
// shape the live forwarder emits. Unknown and unavailable states are
// skipped, as are entities outside the registry.
func SnapshotNotifications(cfg config.ForwarderConfig, idx *registry.Index, states []hub.State) []*monitor.Notification {
	var out []*monitor.Notification
	for i := range states {
		st := &states[i]
		if st.State == "" || st.State == "unknown" || st.State == "unavailable" {
			continue
		}
		areaID, ok := idx.Area(st.EntityID)
		if !ok || !cfg.AreaAllowed(areaID) {
			continue
		}
		ts := st.LastChanged
		if ts == "" {
			ts = st.LastUpdated
		}
		out = append(out, BuildNotification(cfg.BaseURI, areaID, idx.DisplayName(st.EntityID), st, ts))
	}
	return out
}
