package artifact

import (
	"sort"

	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/rdf"
	"github.com/hmaslab/ha-adapter/internal/services"
)

// Action is one affordance published on an artifact description.
type Action struct {
	Name        string
	TypeIRI     string
	Method      string
	Target      string
	ContentType string
	SubProtocol string
}

// Description is the synthesised view of one device as an artifact.
type Description struct {
	Name    string
	AreaID  string
	Domains []string
	Actions []Action
}

// HasDomain reports whether any entity on the artifact belongs to the
// given domain.
func (d *Description) HasDomain(domain string) bool {
	for _, dom := range d.Domains {
		if dom == domain {
			return true
		}
	}
	return false
}

// PickEntity returns the first entity of the given domain, preserving
// the order entities were supplied in.
func PickEntity(entities []hub.Entity, domain string) string {
	for _, e := range entities {
		if hub.EntityDomain(e.EntityID) == domain {
			return e.EntityID
		}
	}
	return ""
}

// Describe synthesises the action set for a device. It is a pure
// function of its inputs: the same device, entities, catalog and
// states always yield the same description.
//
// Remote operations are enumerated per entity domain in sorted order,
// then the service catalog's own order (lexical by domain and name)
// fixes the order within a domain. A read-back action is added for
// sensor entities whose unit can be normalised, then the fixed
// structural affordances.
func Describe(dev hub.Device, entities []hub.Entity, catalog []services.Service, states map[string]*hub.State, base, areaID string) *Description {
	name := dev.Name
	if name == "" {
		name = dev.ID
	}
	profile := ProfileURI(base, areaID, name)

	domainSet := make(map[string]struct{})
	for _, e := range entities {
		if d := hub.EntityDomain(e.EntityID); d != "" {
			domainSet[d] = struct{}{}
		}
	}
	domains := make([]string, 0, len(domainSet))
	for d := range domainSet {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	var actions []Action
	for _, domain := range domains {
		for _, svc := range catalog {
			if svc.Domain != domain || !svc.AppliesTo(domain) {
				continue
			}
			actions = append(actions, Action{
				Name:        CamelToken(domain) + CamelToken(svc.Name),
				TypeIRI:     rdf.TypeStatusCommand,
				Method:      "POST",
				Target:      profile + "/ha/" + EscapeName(domain) + "/" + EscapeName(svc.Name),
				ContentType: "application/json",
			})
		}
	}

	if sensorAction := describeSensor(entities, states); sensorAction != "" {
		actions = append(actions, Action{
			Name:        sensorAction,
			TypeIRI:     rdf.TypeStatusCommand,
			Method:      "POST",
			Target:      profile + "/" + EscapeName(sensorAction),
			ContentType: "application/json",
		})
	}

	actions = append(actions, structuralActions(base, areaID, profile)...)

	return &Description{
		Name:    name,
		AreaID:  areaID,
		Domains: domains,
		Actions: actions,
	}
}

// describeSensor names the read-back action for the device's first
// sensor entity, or "" when there is none or its unit is unusable.
func describeSensor(entities []hub.Entity, states map[string]*hub.State) string {
	entityID := PickEntity(entities, "sensor")
	if entityID == "" {
		return ""
	}
	st := states[entityID]
	if st == nil {
		return ""
	}
	deviceClass, _ := st.Attributes["device_class"].(string)
	unit, _ := st.Attributes["unit_of_measurement"].(string)
	return SensorActionName(deviceClass, unit)
}

func structuralActions(base, areaID, profile string) []Action {
	hubURI := trimSlash(base) + "/hub/"
	focusURI := trimSlash(base) + "/workspaces/" + areaID + "/focus"
	return []Action{
		{Name: "getArtifactRepresentation", TypeIRI: rdf.TypePerceiveArtifact, Method: "GET", Target: profile, ContentType: "application/json"},
		{Name: "updateArtifactRepresentation", TypeIRI: rdf.TypeUpdateArtifact, Method: "PUT", Target: profile, ContentType: "application/json"},
		{Name: "deleteArtifactRepresentation", TypeIRI: rdf.TypeDeleteArtifact, Method: "DELETE", Target: profile, ContentType: "application/json"},
		{Name: "focusArtifact", TypeIRI: rdf.TypeFocus, Method: "POST", Target: focusURI, ContentType: "application/json"},
		{Name: "subscribeToArtifact", TypeIRI: rdf.TypeSubscribeArtifact, Method: "POST", Target: hubURI, ContentType: "application/json", SubProtocol: "websub"},
		{Name: "unsubscribeFromArtifact", TypeIRI: rdf.TypeUnsubscribeArtifact, Method: "POST", Target: hubURI, ContentType: "application/json", SubProtocol: "websub"},
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
