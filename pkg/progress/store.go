package progress

import (
	"encoding/json"
	"time"

	"excesoluz/pkg/errors"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/storage"
)

// ClearConfirmation is the question asked before ClearAll wipes the record
const ClearConfirmation = "¿Estás seguro de que quieres borrar todo tu progreso? Esta acción no se puede deshacer."

// EventKind identifies what changed in a store
type EventKind int

const (
	EventMarked EventKind = iota
	EventUnmarked
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventMarked:
		return "marked"
	case EventUnmarked:
		return "unmarked"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes a persisted change. ID and Category are empty for resets.
type Event struct {
	Kind     EventKind
	ID       string
	Category string
}

// Observer is notified after every successful mutation, e.g. to refresh a
// statistics view. A reset asks observers to redraw from scratch.
type Observer interface {
	ProgressChanged(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

func (f ObserverFunc) ProgressChanged(e Event) { f(e) }

// Confirmer asks the user a yes/no question and blocks until answered
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used by the store
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone history dates are formatted in
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithObserver registers an observer at construction
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// Store is the single source of truth for completion state. It is not safe
// for concurrent use; the record lives in memory and every mutation is
// written through to storage before it returns.
type Store struct {
	storage   storage.Storage
	record    *Record
	now       func() time.Time
	loc       *time.Location
	observers []Observer
	logger    logger.Logger
}

// Open creates a store over s and loads the persisted record
func Open(s storage.Storage, opts ...Option) (*Store, error) {
	store := &Store{
		storage: s,
		now:     time.Now,
		loc:     time.Local,
		logger:  logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(store)
	}

	if _, err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// Load re-reads the persisted record, replacing the in-memory state, and
// returns a copy of it. A missing record yields the empty default. A
// malformed payload is returned as a parsing error with no recovery
// attempted; the stored bytes are left untouched.
func (s *Store) Load() (*Record, error) {
	data, err := s.storage.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.record = NewRecord()
		return s.record.Clone(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "load", StorageKey)
	}

	record, err := decodeRecord(data)
	if err != nil {
		s.logger.WithError(err).WithField("key", StorageKey).Error("Stored progress is not valid JSON")
		return nil, errors.Wrap(err, errors.ErrorTypeParsing, "load", StorageKey)
	}

	s.record = record
	s.logger.DebugWithFields("Progress loaded", map[string]interface{}{
		"completed": len(record.Completed),
		"history":   len(record.History),
	})
	return record.Clone(), nil
}

func (s *Store) save(op string) error {
	data, err := json.Marshal(s.record)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeUnknown, op, StorageKey)
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, op, StorageKey)
	}
	return nil
}

func (s *Store) notify(e Event) {
	for _, o := range s.observers {
		o.ProgressChanged(e)
	}
}

// Subscribe registers an observer after construction
func (s *Store) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// MarkCompleted records id as done. It returns false without changing
// anything when id is already completed. If persisting fails the in-memory
// state is rolled back and the error returned.
func (s *Store) MarkCompleted(id, title, category string) (bool, error) {
	if id == "" {
		return false, errors.New(errors.ErrorTypeInvalidInput, "mark", "resource id is required")
	}
	if _, done := s.record.Completed[id]; done {
		logger.LogProgressChange(s.logger, "mark", id, category, false)
		return false, nil
	}

	now := s.now()
	previous := s.record.History

	s.record.Completed[id] = Completion{
		Title:     title,
		Category:  category,
		Timestamp: now.UTC(),
	}
	entry := HistoryEntry{
		ID:       id,
		Title:    title,
		Category: category,
		Date:     FormatHistoryDate(now.In(s.loc)),
	}
	history := make([]HistoryEntry, 0, len(previous)+1)
	s.record.History = append(append(history, entry), previous...)

	if err := s.save("mark"); err != nil {
		delete(s.record.Completed, id)
		s.record.History = previous
		return false, err
	}

	logger.LogProgressChange(s.logger, "mark", id, category, true)
	s.notify(Event{Kind: EventMarked, ID: id, Category: category})
	return true, nil
}

// UnmarkCompleted removes id from the completed set and its history entry.
// It returns false when id was not completed.
func (s *Store) UnmarkCompleted(id string) (bool, error) {
	completion, done := s.record.Completed[id]
	if !done {
		logger.LogProgressChange(s.logger, "unmark", id, "", false)
		return false, nil
	}

	previous := s.record.History
	filtered := make([]HistoryEntry, 0, len(previous))
	for _, entry := range previous {
		if entry.ID != id {
			filtered = append(filtered, entry)
		}
	}

	delete(s.record.Completed, id)
	s.record.History = filtered

	if err := s.save("unmark"); err != nil {
		s.record.Completed[id] = completion
		s.record.History = previous
		return false, err
	}

	logger.LogProgressChange(s.logger, "unmark", id, completion.Category, true)
	s.notify(Event{Kind: EventUnmarked, ID: id, Category: completion.Category})
	return true, nil
}

// IsCompleted reports whether id has been marked done
func (s *Store) IsCompleted(id string) bool {
	_, done := s.record.Completed[id]
	return done
}

// ClearAll asks c for confirmation and, if granted, resets the record to
// the empty default and persists it. Declining changes nothing and returns
// false.
func (s *Store) ClearAll(c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(ClearConfirmation) {
		s.logger.Debug("Clear all declined")
		return false, nil
	}

	previous := s.record
	s.record = NewRecord()
	if err := s.save("clear"); err != nil {
		s.record = previous
		return false, err
	}

	s.logger.WithField("removed", len(previous.Completed)).Info("Progress cleared")
	s.notify(Event{Kind: EventReset})
	return true, nil
}

// History returns a copy of the history, newest first
func (s *Store) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.record.History))
	copy(out, s.record.History)
	return out
}

// Completed returns a copy of the completed map
func (s *Store) Completed() map[string]Completion {
	out := make(map[string]Completion, len(s.record.Completed))
	for id, c := range s.record.Completed {
		out[id] = c
	}
	return out
}

// Statistics counts completions in a single pass. Categories outside the
// fixed set add to Total only.
func (s *Store) Statistics() Statistics {
	var stats Statistics
	for _, c := range s.record.Completed {
		stats.add(c.Category)
	}
	stats.Total = len(s.record.Completed)
	return stats
}

// FormatCategoryLabel is the method form of the package function, for
// callers that only hold a Store.
func (s *Store) FormatCategoryLabel(category string) string {
	return FormatCategoryLabel(category)
}
