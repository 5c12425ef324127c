package mqtt

import (
	"fmt"
	"net/url"
)

// Topic prefixes for the adapter's broker mirror.
//
// Notification topics use the flat scheme: hmas/notifications/{area}/{artifact}
// so consumers can subscribe per area (hmas/notifications/office/+) or to
// everything (hmas/notifications/#).
const (
	// TopicPrefixNotifications is the base for mirrored property updates.
	TopicPrefixNotifications = "hmas/notifications"

	// TopicPrefixSystem is the base for adapter lifecycle topics.
	TopicPrefixSystem = "hmas/system"
)

// Topics provides builders for the mirror's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// Notification returns the topic for one artifact's mirrored updates.
// The artifact segment is percent-encoded because display names may
// contain slashes or wildcards that would break topic matching.
//
// Example: hmas/notifications/office/Desk%20Lamp
func (Topics) Notification(areaID, artifact string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixNotifications, url.PathEscape(areaID), url.PathEscape(artifact))
}

// SystemStatus returns the adapter lifecycle status topic.
//
// Example: hmas/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
