// Package extension provides the run-time registry of mint action services.
//
// Services (issuer, verifier, raster, notes) are registered by the root mint
// package; applications may register their own services and invoke any of
// them by "service" and "method" names through Actions.Call.
package extension
