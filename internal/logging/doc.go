// Package logging provides centralized zerolog-based structured logging for
// the telemetry ingestion service.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration sourced from internal/config
//   - Context-aware logging with correlation/request ID propagation
//
// # Quick Start
//
//	import "github.com/riftwatch/sentrytel/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("owner", owner).Msg("batch accepted")
//	logging.Error().Err(err).Msg("ingest failed")
//
//	logging.Ctx(ctx).Info().Str("player_id", playerID).Msg("profile updated")
//
// # Log Levels
//
// Supported log levels (from most to least verbose): trace, debug, info,
// warn, error, disabled.
//
// # Component Loggers
//
//	storeLogger := logging.WithComponent("store")
//	storeLogger.Error().Err(err).Msg("put batch failed")
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger is
// protected by sync.RWMutex for configuration changes.
package logging
