// Package logging assembles structured slog loggers and formatting helpers used
// across captionfix.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so request handlers and the caption
// pipeline automatically tag log lines with batch and correlation IDs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
