package progress

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excesoluz/pkg/errors"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/storage"
)

var fixedNow = time.Date(2026, time.October, 17, 9, 5, 0, 0, time.UTC)

func newTestStore(t *testing.T, s storage.Storage, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{
		WithLogger(logger.NewNopLogger()),
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	}, opts...)
	store, err := Open(s, opts...)
	require.NoError(t, err)
	return store
}

// failingStorage wraps a Storage and fails writes on demand
type failingStorage struct {
	storage.Storage
	failSet bool
}

func (f *failingStorage) Set(key string, value []byte) error {
	if f.failSet {
		return stderrors.New("quota exceeded")
	}
	return f.Storage.Set(key, value)
}

func persisted(t *testing.T, s storage.Storage) *Record {
	t.Helper()
	data, err := s.Get(StorageKey)
	require.NoError(t, err)
	r, err := decodeRecord(data)
	require.NoError(t, err)
	return r
}

func TestOpenEmptyStorage(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())

	assert.Empty(t, store.Completed())
	assert.Empty(t, store.History())
	assert.Equal(t, Statistics{}, store.Statistics())
}

func TestMarkCompletedScenario(t *testing.T) {
	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)

	changed, err := store.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, store.IsCompleted("libro-1"))

	stats := store.Statistics()
	assert.Equal(t, 1, stats.Libros)
	assert.Equal(t, 1, stats.Total)

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, HistoryEntry{
		ID:       "libro-1",
		Title:    "Libro X",
		Category: CategoryBooks,
		Date:     "17 de octubre de 2026, 09:05",
	}, history[0])

	rec := persisted(t, mem)
	assert.Equal(t, Completion{Title: "Libro X", Category: CategoryBooks, Timestamp: fixedNow}, rec.Completed["libro-1"])
	assert.Equal(t, history, rec.History)
}

func TestPersistedLayout(t *testing.T) {
	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)
	_, err := store.MarkCompleted("fondo-2", "Amanecer", CategoryWallpapers)
	require.NoError(t, err)

	data, err := mem.Get(StorageKey)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "completados")
	assert.Contains(t, raw, "historial")
	assert.JSONEq(t,
		`{"fondo-2":{"titulo":"Amanecer","categoria":"fondos","fecha":"2026-10-17T09:05:00Z"}}`,
		string(raw["completados"]))
}

func TestMarkCompletedTwiceIsNoop(t *testing.T) {
	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)

	_, err := store.MarkCompleted("dev-1", "Devocional", CategoryDevotionals)
	require.NoError(t, err)
	before, err := mem.Get(StorageKey)
	require.NoError(t, err)

	changed, err := store.MarkCompleted("dev-1", "Otro título", CategoryMusic)
	require.NoError(t, err)
	assert.False(t, changed)

	after, err := mem.Get(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, store.History(), 1)
	assert.Equal(t, "Devocional", store.Completed()["dev-1"].Title)
}

func TestMarkCompletedRequiresID(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	changed, err := store.MarkCompleted("", "Sin id", CategoryBooks)
	assert.False(t, changed)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidInput))
}

func TestUnmarkCompleted(t *testing.T) {
	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)

	_, err := store.MarkCompleted("app-3", "App", CategoryApps)
	require.NoError(t, err)
	_, err = store.MarkCompleted("cancion-1", "Canción", CategoryMusic)
	require.NoError(t, err)

	changed, err := store.UnmarkCompleted("app-3")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, store.IsCompleted("app-3"))

	for _, entry := range store.History() {
		assert.NotEqual(t, "app-3", entry.ID)
	}
	assert.Len(t, store.History(), 1)

	rec := persisted(t, mem)
	assert.NotContains(t, rec.Completed, "app-3")
	assert.Len(t, rec.History, 1)

	t.Run("not completed", func(t *testing.T) {
		changed, err := store.UnmarkCompleted("app-3")
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestHistoryIsNewestFirst(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	for i := 1; i <= 3; i++ {
		_, err := store.MarkCompleted(fmt.Sprintf("libro-%d", i), "Libro", CategoryBooks)
		require.NoError(t, err)
	}

	history := store.History()
	require.Len(t, history, 3)
	assert.Equal(t, "libro-3", history[0].ID)
	assert.Equal(t, "libro-1", history[2].ID)
}

func TestHistoryMirrorsCompleted(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	ops := []struct {
		mark bool
		id   string
	}{
		{true, "a"}, {true, "b"}, {true, "a"}, {false, "b"},
		{true, "c"}, {false, "x"}, {true, "b"}, {false, "a"},
	}

	for _, op := range ops {
		if op.mark {
			_, err := store.MarkCompleted(op.id, op.id, CategoryApps)
			require.NoError(t, err)
		} else {
			_, err := store.UnmarkCompleted(op.id)
			require.NoError(t, err)
		}

		completed := store.Completed()
		history := store.History()
		require.Len(t, history, len(completed))
		seen := make(map[string]bool)
		for _, entry := range history {
			assert.Contains(t, completed, entry.ID)
			assert.False(t, seen[entry.ID], "duplicate history entry %s", entry.ID)
			seen[entry.ID] = true
		}
		assert.Equal(t, len(completed), store.Statistics().Total)
	}
}

func TestStatistics(t *testing.T) {
	store := newTestStore(t, storage.NewMemoryStore())
	items := []struct{ id, category string }{
		{"l1", CategoryBooks},
		{"l2", CategoryBooks},
		{"d1", CategoryDevotionals},
		{"a1", CategoryApps},
		{"m1", CategoryMusic},
		{"f1", CategoryWallpapers},
		{"p1", "podcasts"},
	}
	for _, item := range items {
		_, err := store.MarkCompleted(item.id, item.id, item.category)
		require.NoError(t, err)
	}

	stats := store.Statistics()
	assert.Equal(t, Statistics{
		Total:        7,
		Libros:       2,
		Devocionales: 1,
		Aplicaciones: 1,
		Musica:       1,
		Fondos:       1,
	}, stats)
	assert.Equal(t, 2, stats.Count(CategoryBooks))
	assert.Equal(t, 0, stats.Count("podcasts"))
	assert.True(t, store.IsCompleted("p1"))
}

func TestClearAll(t *testing.T) {
	mem := storage.NewMemoryStore()

	var events []Event
	store := newTestStore(t, mem, WithObserver(ObserverFunc(func(e Event) {
		events = append(events, e)
	})))
	_, err := store.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)

	t.Run("declined", func(t *testing.T) {
		var asked string
		cleared, err := store.ClearAll(ConfirmFunc(func(msg string) bool {
			asked = msg
			return false
		}))
		require.NoError(t, err)
		assert.False(t, cleared)
		assert.Equal(t, ClearConfirmation, asked)
		assert.True(t, store.IsCompleted("libro-1"))
	})

	t.Run("nil confirmer", func(t *testing.T) {
		cleared, err := store.ClearAll(nil)
		require.NoError(t, err)
		assert.False(t, cleared)
	})

	t.Run("confirmed", func(t *testing.T) {
		cleared, err := store.ClearAll(ConfirmFunc(func(string) bool { return true }))
		require.NoError(t, err)
		assert.True(t, cleared)
		assert.Empty(t, store.Completed())
		assert.Empty(t, store.History())

		rec := persisted(t, mem)
		assert.Empty(t, rec.Completed)
		assert.Empty(t, rec.History)
		assert.Equal(t, Event{Kind: EventReset}, events[len(events)-1])
	})
}

func TestObserverNotifiedOnChangesOnly(t *testing.T) {
	var events []Event
	store := newTestStore(t, storage.NewMemoryStore())
	store.Subscribe(ObserverFunc(func(e Event) { events = append(events, e) }))

	_, _ = store.MarkCompleted("m1", "Canción", CategoryMusic)
	_, _ = store.MarkCompleted("m1", "Canción", CategoryMusic)
	_, _ = store.UnmarkCompleted("m1")
	_, _ = store.UnmarkCompleted("m1")

	assert.Equal(t, []Event{
		{Kind: EventMarked, ID: "m1", Category: CategoryMusic},
		{Kind: EventUnmarked, ID: "m1", Category: CategoryMusic},
	}, events)
}

func TestStoragePersistsAcrossStores(t *testing.T) {
	mem := storage.NewMemoryStore()
	first := newTestStore(t, mem)
	_, err := first.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)

	second := newTestStore(t, mem)
	assert.True(t, second.IsCompleted("libro-1"))
	assert.Equal(t, first.History(), second.History())
}

func TestLoadMalformedPayload(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(StorageKey, []byte(`{"completados": [`)))

	_, err := Open(mem, WithLogger(logger.NewNopLogger()))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))

	// the payload is left for the user to inspect
	data, err := mem.Get(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `{"completados": [`, string(data))
}

func TestLoadNormalizesNullMembers(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(StorageKey, []byte(`{"completados":null,"historial":null}`)))

	store := newTestStore(t, mem)
	changed, err := store.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestLoadPicksUpExternalWrites(t *testing.T) {
	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)

	other := newTestStore(t, mem)
	_, err := other.MarkCompleted("fondo-1", "Fondo", CategoryWallpapers)
	require.NoError(t, err)

	assert.False(t, store.IsCompleted("fondo-1"))
	rec, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, rec.Completed, "fondo-1")
	assert.True(t, store.IsCompleted("fondo-1"))
}

func TestWriteFailureRollsBack(t *testing.T) {
	fs := &failingStorage{Storage: storage.NewMemoryStore()}
	store := newTestStore(t, fs)
	_, err := store.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)

	fs.failSet = true

	changed, err := store.MarkCompleted("libro-2", "Libro Y", CategoryBooks)
	assert.False(t, changed)
	assert.True(t, errors.IsType(err, errors.ErrorTypeStorage))
	assert.False(t, store.IsCompleted("libro-2"))
	assert.Len(t, store.History(), 1)

	changed, err = store.UnmarkCompleted("libro-1")
	assert.False(t, changed)
	assert.Error(t, err)
	assert.True(t, store.IsCompleted("libro-1"))
	assert.Len(t, store.History(), 1)

	cleared, err := store.ClearAll(ConfirmFunc(func(string) bool { return true }))
	assert.False(t, cleared)
	assert.Error(t, err)
	assert.True(t, store.IsCompleted("libro-1"))
}

func TestLogsProgressChangesToInjectedLogger(t *testing.T) {
	global := logger.NewTestLogger()
	logger.SetLogger(global)
	t.Cleanup(func() { logger.SetLogger(logger.NewNopLogger()) })

	tl := logger.NewTestLogger()
	store := newTestStore(t, storage.NewMemoryStore(), WithLogger(tl))
	_, err := store.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)
	_, err = store.MarkCompleted("libro-1", "Libro X", CategoryBooks)
	require.NoError(t, err)

	assert.True(t, tl.HasMessage("Progress updated"))
	assert.True(t, tl.HasMessage("Progress unchanged"))
	assert.False(t, global.HasMessage("Progress updated"))
}
