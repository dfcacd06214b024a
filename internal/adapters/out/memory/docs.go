// Package memory provides goroutine-safe, map-backed repositories. They
// back the "memory" storage options and serve as fakes in tests.
//
// Aggregates are stored as snapshots and rebuilt on every read, so callers
// never share mutable state with the repository.
package memory
