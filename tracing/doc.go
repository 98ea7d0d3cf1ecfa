// Package tracing wraps OpenTelemetry so that mint operations (issue, stamp,
// rasterize) can emit spans without importing the upstream packages. Until
// Init is called spans are no-ops.
package tracing
