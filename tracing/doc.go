// Package tracing wraps OpenTelemetry so that runs, the producer and the
// worker pool can emit spans without importing the SDK directly.  Spans are
// no-ops until Init or InitWithExporter installs a provider.
package tracing
