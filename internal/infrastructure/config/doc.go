// Package config loads and validates the adapter configuration.
//
// Configuration is read from a YAML file with environment variable
// overrides (HAADAPTER_* pattern). The resulting Config value is
// immutable after Load and passed explicitly to every component that
// needs it; nothing reads ambient global state after startup.
package config
