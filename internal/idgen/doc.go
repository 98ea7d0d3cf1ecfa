// Package idgen wraps the UUID generator used for mint run identifiers so that
// it can be stubbed in tests. Run ids are opaque and only correlate the logs
// and spans of a single issue call.
package idgen
