package analytics

import (
	"time"
)

// EventKind is the tipo field of a wallpaper event
type EventKind string

const (
	EventView     EventKind = "view"
	EventDownload EventKind = "download"
)

// ParseEventKind validates a kind given on the command line
func ParseEventKind(s string) (EventKind, bool) {
	switch EventKind(s) {
	case EventView, EventDownload:
		return EventKind(s), true
	default:
		return "", false
	}
}

// Event is one wallpaper interaction
type Event struct {
	Kind        EventKind
	WallpaperID string
	Time        time.Time
	UserAgent   string
}

// Fields encodes the event with the field names the site writes
func (e Event) Fields() map[string]Value {
	return map[string]Value{
		"tipo":      StringValue(string(e.Kind)),
		"fondoId":   StringValue(e.WallpaperID),
		"fecha":     TimestampValue(e.Time),
		"userAgent": StringValue(e.UserAgent),
	}
}
