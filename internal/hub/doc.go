// Package hub provides thin clients for the home-automation hub's
// WebSocket and REST APIs.
//
// The WebSocket Client handles the token handshake and id-correlated
// command calls (registry listings). Event subscriptions each own an
// independent connection via OpenEvents, keeping the single-consumer
// invariant of the stream.
//
// The REST client covers state listings, the raw service catalog,
// service invocation, and direct state writes.
//
// This package holds no derived state and applies no policy: filtering,
// indexing, and selection live in the registry, services, and
// forwarder packages.
package hub
