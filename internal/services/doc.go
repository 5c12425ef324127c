// Package services models the hub's remote-operation catalog and
// selects the operation best matching a requested property change.
//
// The catalog is parsed once per fetch into typed Service records with
// a single applicability predicate covering both the legacy
// (entity_id field) and modern (target domain list) catalog shapes.
// Selection is deterministic: an on/off shortcut for the common case,
// weighted scoring otherwise, ties broken lexically by domain and name.
package services
