// Package tui is an interactive terminal browser over the resource
// catalogue: move through resources, toggle completion and switch to a
// progress view with the chart and history.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"excesoluz/pkg/catalog"
	"excesoluz/pkg/progress"
)

// TUI wraps the bubbletea program
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a browser on the alternate screen
func NewTUI(store *progress.Store, cat *catalog.Catalog, totals map[string]int, opts ...Option) *TUI {
	model := NewModel(store, cat, totals, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   model,
	}
}

// Start runs the TUI until the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}
