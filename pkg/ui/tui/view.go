package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"excesoluz/pkg/catalog"
	"excesoluz/pkg/progress"
	"excesoluz/pkg/ui"
)

// View renders the entire TUI
func (m *Model) View() string {
	var sections []string

	sections = append(sections, logoStyle.Render("✦ Exceso de Luz"))
	sections = append(sections, m.renderTabs())

	switch m.view {
	case ViewProgress:
		sections = append(sections, m.renderProgress())
	default:
		sections = append(sections, m.renderResources())
	}

	if m.confirming {
		sections = append(sections, confirmStyle.Render(progress.ClearConfirmation+" (s/n)"))
	}

	if m.toast != "" {
		style := toastStyle
		if m.toastErr {
			style = toastErrorStyle
		}
		sections = append(sections, style.Render(m.toast))
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("? ayuda • q salir"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	tabs := []string{"Recursos", "Mi progreso"}
	var out []string
	for i, tab := range tabs {
		if View(i) == m.view {
			out = append(out, activeTabStyle.Render(tab))
		} else {
			out = append(out, tabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// visibleRange returns the slice of resources that fits the terminal,
// keeping the cursor on screen
func (m *Model) visibleRange() (int, int) {
	n := len(m.resources)
	rows := m.height - 12
	if m.height == 0 || rows >= n || rows <= 0 {
		return 0, n
	}

	start := m.cursor - rows/2
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > n {
		end = n
		start = end - rows
	}
	return start, end
}

func (m *Model) renderResources() string {
	if len(m.resources) == 0 {
		return panelStyle.Render("El catálogo está vacío.")
	}

	start, end := m.visibleRange()
	var lines []string
	category := ""
	for i := start; i < end; i++ {
		r := m.resources[i]
		if r.Category != category {
			category = r.Category
			lines = append(lines, categoryStyle.Render(progress.FormatCategoryLabel(category)))
		}
		lines = append(lines, m.renderItem(i, r))
	}

	if r, ok := m.Selected(); ok {
		lines = append(lines, "", m.renderDetail(r))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderItem(i int, r catalog.Resource) string {
	done := m.store.IsCompleted(r.ID)
	box := "[ ]"
	if done {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, r.Title)

	switch {
	case i == m.cursor:
		return itemSelectedStyle.Render("› " + line)
	case done:
		return itemCompletedStyle.Render(line)
	default:
		return itemStyle.Render(line)
	}
}

func (m *Model) renderDetail(r catalog.Resource) string {
	var lines []string
	if r.Description != "" {
		lines = append(lines, r.Description)
	}
	if r.URL != "" {
		lines = append(lines, ui.LabelOpen+" "+r.URL)
	}
	lines = append(lines, ui.CompletionLabel(m.store.IsCompleted(r.ID)))
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderProgress() string {
	stats := m.store.Statistics()

	cards := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Total completados:"), statsValueStyle.Render(fmt.Sprint(stats.Total))),
	}

	var bars []string
	for _, category := range progress.Categories {
		value := stats.Count(category)
		total := m.totals[category]
		percent := progress.Percent(value, total)
		bars = append(bars, fmt.Sprintf("%-16s %s %d/%d",
			ui.ChartLabels[category], m.bar.ViewAs(percent/100), value, total))
	}

	history := titleStyle.Render(" Historial ") + "\n" + strings.TrimRight(
		ui.RenderHistory(m.store.History(), progress.FormatCategoryLabel), "\n")

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(cards, "\n"),
		"",
		strings.Join(bars, "\n"),
		"",
		history,
	))
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Navegación:
    ↑/k ↓/j    mover
    espacio/x  marcar o desmarcar
    tab        recursos / mi progreso
    enter      ver fondo (registra visita)
    d          descargar fondo (registra descarga)
    C          borrar todo el progreso
    q          salir
    ?          mostrar u ocultar esta ayuda
`
	return panelStyle.Render(help)
}
