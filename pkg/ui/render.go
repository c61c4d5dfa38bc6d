package ui

import (
	"fmt"
	"strings"

	"excesoluz/pkg/catalog"
	"excesoluz/pkg/progress"
)

const (
	barFilled = "━"
	barEmpty  = "─"
	barWidth  = 20
)

// Labels shown on resource cards
const (
	LabelCompleted = "Completado ✓"
	LabelPending   = "Marcar como completado"
	LabelOpen      = "Abrir →"
)

// EmptyHistory is shown when nothing has been completed yet
const EmptyHistory = "Aún no has marcado ningún recurso como completado."

// ChartLabels are the plural category names used by progress charts
var ChartLabels = map[string]string{
	progress.CategoryBooks:       "📚 Libros",
	progress.CategoryDevotionals: "📖 Devocionales",
	progress.CategoryApps:        "📱 Aplicaciones",
	progress.CategoryMusic:       "🎵 Música",
	progress.CategoryWallpapers:  "🖼️ Fondos",
}

// Checkbox renders the completion box of a resource
func Checkbox(completed bool) string {
	if completed {
		return Green("[x]")
	}
	return "[ ]"
}

// CompletionLabel is the text next to the checkbox
func CompletionLabel(completed bool) string {
	if completed {
		return LabelCompleted
	}
	return LabelPending
}

// RenderResource renders one resource card
func RenderResource(r catalog.Resource, completed bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s\n", Checkbox(completed), Bold(r.Title), Dim(progress.FormatCategoryLabel(r.Category)))
	if r.Description != "" {
		fmt.Fprintf(&b, "    %s\n", r.Description)
	}
	if r.URL != "" {
		fmt.Fprintf(&b, "    %s %s\n", LabelOpen, Cyan(r.URL))
	}
	if r.Image != "" {
		fmt.Fprintf(&b, "    %s\n", Dim(r.Image))
	}
	label := CompletionLabel(completed)
	if completed {
		label = Green(label)
	}
	fmt.Fprintf(&b, "    %s  %s\n", Dim(r.ID), label)

	return b.String()
}

// Bar renders a fixed-width bar filled to percent
func Bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// RenderChart renders one bar per fixed category. totals are the cached
// category sizes; a missing or zero total draws an empty bar.
func RenderChart(stats progress.Statistics, totals map[string]int) string {
	var b strings.Builder

	for _, category := range progress.Categories {
		value := stats.Count(category)
		total := totals[category]
		percent := progress.Percent(value, total)

		fmt.Fprintf(&b, "%-18s [%s] %3.0f%%  %d/%d\n",
			ChartLabels[category],
			Green(Bar(percent, barWidth)),
			percent,
			value,
			total,
		)
	}

	return b.String()
}

// RenderHistory renders the flat history list, newest first. label maps a
// category key to its display label.
func RenderHistory(entries []progress.HistoryEntry, label func(string) string) string {
	if len(entries) == 0 {
		return Dim(EmptyHistory) + "\n"
	}
	if label == nil {
		label = progress.FormatCategoryLabel
	}

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s\n    %s  %s\n", Bold(entry.Title), label(entry.Category), Dim(entry.Date))
	}
	return b.String()
}

// statCard pairs a counter caption with how to read it from Statistics
type statCard struct {
	caption string
	value   func(progress.Statistics) int
}

var statCards = []statCard{
	{"Total completados", func(s progress.Statistics) int { return s.Total }},
	{"Libros leídos", func(s progress.Statistics) int { return s.Libros }},
	{"Devocionales completados", func(s progress.Statistics) int { return s.Devocionales }},
	{"Apps probadas", func(s progress.Statistics) int { return s.Aplicaciones }},
	{"Música escuchada", func(s progress.Statistics) int { return s.Musica }},
	{"Fondos descargados", func(s progress.Statistics) int { return s.Fondos }},
}

// RenderStatsCards renders the counters of the progress page
func RenderStatsCards(stats progress.Statistics) string {
	var b strings.Builder
	for _, card := range statCards {
		fmt.Fprintf(&b, "%-26s %s\n", card.caption, Yellow(fmt.Sprintf("%d", card.value(stats))))
	}
	return b.String()
}
