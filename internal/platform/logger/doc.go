// Package logger provides structured logging functionality for the application.
//
// It builds log/slog loggers from configuration (JSON for production, colored
// text through tint for local runs) and carries request-scoped loggers in a
// context so deep call sites inherit trace and session attributes.
package logger
