// Package tracing wraps OpenTelemetry tracing behind a small helper API so
// the rest of the code-base can start and end spans without depending on the
// upstream packages. Applications that do not initialise an exporter get
// no-op spans.
package tracing
