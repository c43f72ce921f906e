// Package logging provides structured logging for embedd built on Zap.
//
// Loggers are context-aware: trace/span IDs, request IDs and collection
// names stored in the context are attached to every entry. Output goes to
// stdout and optionally to an OpenTelemetry log provider via the otelzap
// bridge. Sensitive fields (API keys, bearer tokens) are redacted at the
// encoder level.
package logging
