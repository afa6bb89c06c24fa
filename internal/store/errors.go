package store

import "errors"

// ErrRecordNotFound is returned by Get when no record exists at (pk, sk).
// Callers treat a missing record as empty prior state — it is not logged as
// a failure.
var ErrRecordNotFound = errors.New("store: record not found")

// ErrCircuitOpen is returned when the gobreaker circuit protecting the
// underlying KV engine is open, i.e. recent operations have failed enough
// to trip the breaker and the store is fast-failing rather than retrying
// against a likely-unhealthy engine.
var ErrCircuitOpen = errors.New("store: circuit breaker open")
