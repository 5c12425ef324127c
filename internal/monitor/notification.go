package monitor

// Notification is the observable-property update delivered to the
// monitor. The JSON field names are part of the wire contract.
type Notification struct {
	ArtifactURI  string `json:"artifactUri"`
	PropertyURI  string `json:"propertyUri"`
	Value        any    `json:"value"`
	ValueTypeURI string `json:"valueTypeUri"`
	Timestamp    string `json:"timestamp"`
	TriggerURI   string `json:"triggerUri"`

	// Routing hints for the optional broker mirror. Not serialised.
	AreaID   string `json:"-"`
	Artifact string `json:"-"`
}

// notificationType is sent on every delivery so receivers can dispatch
// without parsing the body.
const notificationType = "ArtifactObsPropertyUpdated"
