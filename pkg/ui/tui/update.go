package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"excesoluz/pkg/analytics"
	"excesoluz/pkg/progress"
	"excesoluz/pkg/ui"
)

// toastExpiredMsg hides the toast it was scheduled for
type toastExpiredMsg struct {
	seq int
}

// eventRecordedMsg reports the outcome of an analytics write
type eventRecordedMsg struct {
	kind   analytics.EventKind
	stored bool
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil

	case eventRecordedMsg:
		if msg.stored && msg.kind == analytics.EventDownload {
			return m, m.showToast("Descarga registrada", false)
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		return m, m.handleConfirm(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp

	case "tab":
		if m.view == ViewResources {
			m.view = ViewProgress
		} else {
			m.view = ViewResources
		}

	case "up", "k":
		m.moveCursor(-1)

	case "down", "j":
		m.moveCursor(1)

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		m.moveCursor(len(m.resources))

	case " ", "x":
		if m.view == ViewResources {
			return m, m.toggle()
		}

	case "enter":
		if m.view == ViewResources {
			return m, m.recordWallpaper(analytics.EventView)
		}

	case "d":
		if m.view == ViewResources {
			return m, m.recordWallpaper(analytics.EventDownload)
		}

	case "C":
		m.confirming = true
	}

	return m, nil
}

// handleConfirm answers the clear-all question
func (m *Model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	m.confirming = false

	switch msg.String() {
	case "y", "Y", "s", "S":
		cleared, err := m.store.ClearAll(progress.ConfirmFunc(func(string) bool { return true }))
		if err != nil {
			return m.showToast("Error: "+err.Error(), true)
		}
		if cleared {
			m.cursor = 0
			return m.showToast(ui.ToastMessage(progress.Event{Kind: progress.EventReset}), false)
		}
	}
	return nil
}

// toggle flips the completion state of the selected resource
func (m *Model) toggle() tea.Cmd {
	r, ok := m.Selected()
	if !ok {
		return nil
	}

	var (
		changed bool
		err     error
		kind    progress.EventKind
	)
	if m.store.IsCompleted(r.ID) {
		changed, err = m.store.UnmarkCompleted(r.ID)
		kind = progress.EventUnmarked
	} else {
		changed, err = m.store.MarkCompleted(r.ID, r.Title, r.Category)
		kind = progress.EventMarked
	}

	if err != nil {
		return m.showToast("Error: "+err.Error(), true)
	}
	if !changed {
		return nil
	}
	return m.showToast(ui.ToastMessage(progress.Event{Kind: kind, ID: r.ID}), false)
}

// recordWallpaper sends an analytics event for the selected wallpaper.
// Other categories are ignored.
func (m *Model) recordWallpaper(kind analytics.EventKind) tea.Cmd {
	r, ok := m.Selected()
	if !ok || r.Category != progress.CategoryWallpapers || m.recorder == nil {
		return nil
	}

	ctx, recorder := m.ctx, m.recorder
	return func() tea.Msg {
		return eventRecordedMsg{kind: kind, stored: recorder.RecordEvent(ctx, kind, r.ID)}
	}
}

// showToast displays message and schedules its removal
func (m *Model) showToast(message string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = message
	m.toastErr = isErr

	seq := m.toastSeq
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
