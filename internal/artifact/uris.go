package artifact

import (
	"net/url"
	"strings"
)

// EscapeName percent-encodes a display name for use as a URL path
// segment, including slashes.
func EscapeName(name string) string {
	return url.PathEscape(name)
}

// ProfileURI is the resource profile of an artifact, without fragment.
func ProfileURI(base, areaID, name string) string {
	return strings.TrimRight(base, "/") + "/workspaces/" + areaID + "/artifacts/" + EscapeName(name)
}

// URI is the artifact IRI itself.
func URI(base, areaID, name string) string {
	return ProfileURI(base, areaID, name) + "#artifact"
}

// PropertyURI identifies one observable property of an artifact.
func PropertyURI(base, areaID, name, property string) string {
	return ProfileURI(base, areaID, name) + "/props/" + EscapeName(property)
}

// TriggerURI is the action credited as the source of an observed
// property update.
func TriggerURI(base, areaID, name string) string {
	return ProfileURI(base, areaID, name) + "/actions/read"
}

// WorkspaceURI is the workspace IRI for an area.
func WorkspaceURI(base, areaID string) string {
	return strings.TrimRight(base, "/") + "/workspaces/" + areaID + "#workspace"
}

// WorkspaceProfileURI is the workspace resource profile, no fragment.
func WorkspaceProfileURI(base, areaID string) string {
	return strings.TrimRight(base, "/") + "/workspaces/" + areaID
}
