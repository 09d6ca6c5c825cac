// Package logging builds the slog loggers used for diagnostics.
//
// Two formats are supported: "console" (logfmt-style text with a short
// clock) and "json". Source locations are attached at debug level only.
package logging
