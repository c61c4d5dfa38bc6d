// Package progress tracks which catalog resources the user has completed.
//
// A Store keeps one Record in memory and writes it through to a
// storage.Storage on every change. The persisted document is JSON with a
// "completados" map keyed by resource id and a "historial" list, newest
// first, whose entries mirror the map one for one.
//
//	store, err := progress.Open(storage.NewMemoryStore())
//	changed, err := store.MarkCompleted("libro-1", "Libro X", progress.CategoryBooks)
//	stats := store.Statistics()
package progress
