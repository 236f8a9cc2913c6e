// Package types defines the workout record model, its derived metrics,
// storage configuration, and the standard error values shared by the
// store, the persistence gateway, and the orchestrator.
package types
