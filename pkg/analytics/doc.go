// Package analytics appends wallpaper view and download events to a
// Firestore collection through the Firestore REST API.
//
// Client is a thin HTTP client for document creation. Recorder sits on
// top of it and is what callers use: it throttles events, logs failures
// and never returns them, so an unreachable backend cannot break the
// action that triggered the event.
//
//	rec := analytics.NewRecorder(cfg.Analytics)
//	rec.RecordEvent(ctx, analytics.EventDownload, "fondo-3")
package analytics
