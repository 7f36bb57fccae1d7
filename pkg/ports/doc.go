// Package ports defines the driven-side interfaces of the screening
// engine: persistence of session state and distributed concurrency
// control. Adapters live under pkg/adapters.
package ports
