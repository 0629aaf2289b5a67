// Package types defines the Store interface, the metric kind table, the
// Observation entity, and standard error types for the Pulse observation
// store.
package types
