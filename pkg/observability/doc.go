// Package observability bundles the operational concerns shared by every
// component: structured JSON logging, Prometheus metrics, health probes
// and optional OpenTelemetry tracing.
package observability
