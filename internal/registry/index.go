// Package registry derives lookup indexes from a point-in-time snapshot
// of the hub's device and entity registries.
//
// The Index is a pure function of one snapshot. It is rebuilt wholesale
// on every forwarder connection cycle and never partially updated, so a
// registry change on the hub takes effect only on the next reconnect.
package registry

import "github.com/hmaslab/ha-adapter/internal/hub"

// Index maps entities to their areas and devices.
//
// Entities inherit their area from the owning device when they carry no
// area assignment of their own. Entities with neither are absent from
// AreaByEntity; events on them are dropped downstream.
type Index struct {
	// AreaByEntity maps entity_id → area_id for entities with a
	// resolvable area.
	AreaByEntity map[string]string

	// DeviceByEntity maps entity_id → device_id for entities that
	// belong to a device.
	DeviceByEntity map[string]string

	// Devices maps device_id → device record.
	Devices map[string]hub.Device
}

// Build derives the Index from one registry snapshot.
//
// An entity's area is its own area_id if present, otherwise the
// area_id of its device. An entity referencing an unknown device is
// tolerated and treated as area-less (registry inconsistency is not
// fatal).
func Build(snap *hub.Snapshot) *Index {
	idx := &Index{
		AreaByEntity:   make(map[string]string, len(snap.Entities)),
		DeviceByEntity: make(map[string]string, len(snap.Entities)),
		Devices:        make(map[string]hub.Device, len(snap.Devices)),
	}

	for _, d := range snap.Devices {
		idx.Devices[d.ID] = d
	}

	for _, e := range snap.Entities {
		areaID := e.AreaID
		if areaID == "" && e.DeviceID != "" {
			areaID = idx.Devices[e.DeviceID].AreaID
		}
		if areaID != "" {
			idx.AreaByEntity[e.EntityID] = areaID
		}
		if e.DeviceID != "" {
			idx.DeviceByEntity[e.EntityID] = e.DeviceID
		}
	}

	return idx
}

// DisplayName resolves the artifact display name for an entity: the
// owning device's name when resolvable, otherwise the entity's local
// identifier segment.
func (idx *Index) DisplayName(entityID string) string {
	if devID, ok := idx.DeviceByEntity[entityID]; ok {
		if dev, ok := idx.Devices[devID]; ok && dev.Name != "" {
			return dev.Name
		}
	}
	return hub.ObjectID(entityID)
}

// Area returns the resolved area for an entity, with ok=false when the
// entity has no resolvable area.
func (idx *Index) Area(entityID string) (string, bool) {
	areaID, ok := idx.AreaByEntity[entityID]
	return areaID, ok
}
