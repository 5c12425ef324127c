// Package artifact turns hub devices into artifact descriptions.
//
// A device exposed by the hub becomes an artifact inside the workspace
// of its area. Describe enumerates the artifact's affordances: one
// action per applicable remote operation of each entity domain, a
// read-back action for sensors with a recognisable unit, and the fixed
// structural affordances every artifact carries. The package also owns
// the URI scheme for workspaces, artifacts, properties and triggers,
// and renders descriptions as Turtle graphs.
//
// Describe is deterministic. Given the same device, entities, catalog
// and states it produces the identical action list, which keeps
// published descriptions stable across calls.
package artifact
