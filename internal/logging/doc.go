// Package logging assembles the structured slog loggers used across the
// scraper. It centralizes level and format plumbing, exposes typed attribute
// constructors, and provides a no-op logger for tests. Prefer these
// constructors over hand-rolled slog setup so every component emits log lines
// with the same shape.
package logging
