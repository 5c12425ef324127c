package services

import (
	"sort"

	"github.com/hmaslab/ha-adapter/internal/hub"
)

// VirtualDomain is the synthetic-entity namespace favoured by the
// selector: its services write values into software-defined entities.
const VirtualDomain = "virtual"

// Service is a strongly-typed record of one remote operation from the
// hub's catalog. It is constructed once per catalog fetch so selection
// operates over typed data instead of ad hoc key lookups.
type Service struct {
	// Domain is the owning namespace ("light", "virtual", ...).
	Domain string

	// Name is the service name within the domain ("turn_on", "set_value").
	Name string

	// Fields is the set of declared input field names.
	Fields map[string]struct{}

	// TargetDomains is the set of entity domains the service targets
	// ("modern" applicability).
	TargetDomains map[string]struct{}
}

// HasField reports whether the service declares the named input field.
func (s Service) HasField(name string) bool {
	_, ok := s.Fields[name]
	return ok
}

// AppliesTo reports whether the service can address an entity of the
// given domain: either it declares an explicit entity_id field
// ("legacy" applicability) or its target list includes the domain
// ("modern" applicability). The branch on catalog shape is resolved
// here once, at parse time consumers only see this predicate.
func (s Service) AppliesTo(domain string) bool {
	if s.HasField("entity_id") {
		return true
	}
	_, ok := s.TargetDomains[domain]
	return ok
}

// Key returns the canonical "domain.name" identifier.
func (s Service) Key() string {
	return s.Domain + "." + s.Name
}

// ParseCatalog flattens the hub's raw service catalog into typed
// records, sorted lexically by domain and name so every downstream
// consumer enumerates candidates in a stable order.
func ParseCatalog(raw []hub.ServiceDomain) []Service {
	var out []Service
	for _, dom := range raw {
		if dom.Domain == "" {
			continue
		}
		for name, meta := range dom.Services {
			svc := Service{
				Domain:        dom.Domain,
				Name:          name,
				Fields:        make(map[string]struct{}, len(meta.Fields)),
				TargetDomains: make(map[string]struct{}),
			}
			for f := range meta.Fields {
				svc.Fields[f] = struct{}{}
			}
			if meta.Target != nil {
				for _, te := range meta.Target.Entity {
					for _, d := range te.Domain {
						svc.TargetDomains[d] = struct{}{}
					}
				}
			}
			out = append(out, svc)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}
