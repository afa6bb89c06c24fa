// Package middleware provides HTTP middleware for the dev server in
// internal/api: request ID propagation and Prometheus request timing.
package middleware
