// Package progress keeps aggregated counters for a single mint run. The
// tracker travels in the context so the issuer, stamp and raster steps can
// report without a shared registry.
package progress
