// Package lux maintains a synthetic indoor illuminance sensor.
//
// Physical light sources move the value: lights turning on or off and
// covers opening or closing each contribute a configured delta, and
// cover position changes are inferred from the current_position
// attribute when the state alone is ambiguous. The value never drops
// below zero.
//
// The accumulator owns an independent event subscription and shares no
// mutable state with the forwarder.
package lux
