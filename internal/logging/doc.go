// Package logging assembles the structured slog loggers used across
// shortspulse binaries.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus standardized field keys so
// engine components tag log lines consistently. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
