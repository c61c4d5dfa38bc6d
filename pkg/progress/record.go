package progress

import (
	"encoding/json"
	"time"
)

// StorageKey is the key the progress record is persisted under
const StorageKey = "exceso_luz_progreso"

// Fixed category keys counted by Statistics
const (
	CategoryBooks       = "libros"
	CategoryDevotionals = "devocionales"
	CategoryApps        = "aplicaciones"
	CategoryMusic       = "musica"
	CategoryWallpapers  = "fondos"
)

// Categories lists the fixed category set in display order
var Categories = []string{
	CategoryBooks,
	CategoryDevotionals,
	CategoryApps,
	CategoryMusic,
	CategoryWallpapers,
}

// IsKnownCategory reports whether category belongs to the fixed set
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Completion is the stored fact that a resource has been marked done
type Completion struct {
	Title     string    `json:"titulo"`
	Category  string    `json:"categoria"`
	Timestamp time.Time `json:"fecha"`
}

// HistoryEntry is one line of the completion history. Date is already
// formatted for display.
type HistoryEntry struct {
	ID       string `json:"id"`
	Title    string `json:"titulo"`
	Category string `json:"categoria"`
	Date     string `json:"fecha"`
}

// Record is the single persisted progress document. History is newest first
// and holds exactly one entry per key of Completed.
type Record struct {
	Completed map[string]Completion `json:"completados"`
	History   []HistoryEntry        `json:"historial"`
}

// NewRecord returns the empty default record
func NewRecord() *Record {
	return &Record{
		Completed: make(map[string]Completion),
		History:   []HistoryEntry{},
	}
}

// Clone returns a deep copy of r
func (r *Record) Clone() *Record {
	c := &Record{
		Completed: make(map[string]Completion, len(r.Completed)),
		History:   make([]HistoryEntry, len(r.History)),
	}
	for id, completion := range r.Completed {
		c.Completed[id] = completion
	}
	copy(c.History, r.History)
	return c
}

// decodeRecord parses a persisted payload. Null members are normalized to
// empty values so callers never see nil maps.
func decodeRecord(data []byte) (*Record, error) {
	r := NewRecord()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	if r.Completed == nil {
		r.Completed = make(map[string]Completion)
	}
	if r.History == nil {
		r.History = []HistoryEntry{}
	}
	return r, nil
}
