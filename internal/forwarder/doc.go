// Package forwarder bridges hub state changes to the external monitor.
//
// The forwarder is the adapter's only event-driven component. It owns
// one subscription connection to the hub and one registry index per
// connection cycle. Events are filtered (wrong type, unusable state,
// unresolvable or disallowed area), turned into observable-property
// notifications and delivered at-most-once; a delivery failure drops
// that event and nothing else.
//
// Resilience is deliberately coarse: any failure on the cycle tears the
// whole cycle down and a fresh one rebuilds the index from a new
// snapshot after a fixed delay. There is no partial recovery and no
// event replay.
package forwarder
