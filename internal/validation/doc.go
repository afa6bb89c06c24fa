// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. Callers use it
// for soft, diagnostic-only validation — invalid per-event fields are logged,
// never rejected — but the package itself is a general-purpose struct
// validator usable anywhere a hard 400 is warranted too.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//
// # Quick Start
//
//	type EventRecord struct {
//	    Owner      string `validate:"required"`
//	    PlayerID   string `validate:"required"`
//	    ActionType string `validate:"required"`
//	}
//
//	if verr := validation.ValidateStruct(&event); verr != nil {
//	    log.Warn().Str("validation", verr.Error()).Msg("event failed soft validation")
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n / max=n: Length bounds
//   - oneof=a b c: Must be one of the specified values
//
// Numeric validations:
//   - gte=n / lte=n / gt=n / lt=n: Value bounds
//
// # Error Types
//
// ValidationError represents a single field validation failure (Field, Tag,
// Param, Value, Error). RequestValidationError aggregates multiple field
// errors and exposes ToAPIError for a structured VALIDATION_ERROR response.
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use.
package validation
