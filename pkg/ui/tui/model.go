package tui

import (
	"context"
	"time"

	bar "github.com/charmbracelet/bubbles/progress"

	"excesoluz/pkg/analytics"
	"excesoluz/pkg/catalog"
	"excesoluz/pkg/progress"
)

// DefaultToastDuration is how long a notification stays on screen
const DefaultToastDuration = 3 * time.Second

// View identifies the active screen
type View int

const (
	ViewResources View = iota
	ViewProgress
)

// Model is the bubbletea model of the resource browser
type Model struct {
	store     *progress.Store
	resources []catalog.Resource
	totals    map[string]int
	recorder  *analytics.Recorder
	ctx       context.Context

	// UI components
	bar bar.Model

	// UI state
	view          View
	cursor        int
	toast         string
	toastErr      bool
	toastSeq      int
	toastDuration time.Duration
	confirming    bool
	showHelp      bool
	width         int
	height        int
}

// Option configures a Model
type Option func(*Model)

// WithRecorder enables wallpaper view/download events
func WithRecorder(r *analytics.Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithToastDuration overrides DefaultToastDuration
func WithToastDuration(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.toastDuration = d
		}
	}
}

// WithContext sets the context used for analytics requests
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// NewModel creates a browser over the resources of cat. totals are the
// cached category sizes used by the progress chart.
func NewModel(store *progress.Store, cat *catalog.Catalog, totals map[string]int, opts ...Option) *Model {
	b := bar.New(bar.WithGradient(string(dawnOrange), string(sunGold)), bar.WithoutPercentage())
	b.Width = 30

	m := &Model{
		store:         store,
		resources:     cat.All(),
		totals:        totals,
		ctx:           context.Background(),
		bar:           b,
		toastDuration: DefaultToastDuration,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cursor returns the selected resource index
func (m *Model) Cursor() int {
	return m.cursor
}

// ActiveView returns the current screen
func (m *Model) ActiveView() View {
	return m.view
}

// Toast returns the notification currently shown, or ""
func (m *Model) Toast() string {
	return m.toast
}

// Selected returns the resource under the cursor
func (m *Model) Selected() (catalog.Resource, bool) {
	if m.cursor < 0 || m.cursor >= len(m.resources) {
		return catalog.Resource{}, false
	}
	return m.resources[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	if len(m.resources) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.resources) {
		m.cursor = len(m.resources) - 1
	}
}
