package progress

import (
	"time"

	"github.com/goodsign/monday"
)

var categoryLabels = map[string]string{
	CategoryBooks:       "📚 Libro",
	CategoryDevotionals: "📖 Devocional",
	CategoryApps:        "📱 Aplicación",
	CategoryMusic:       "🎵 Canción",
	CategoryWallpapers:  "🖼️ Fondo de Pantalla",
}

// FormatCategoryLabel maps a category key to its display label.
// Unrecognized keys are returned unchanged.
func FormatCategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

// historyDateLayout matches toLocaleDateString("es-ES") with a long month
// plus hour and minute
const historyDateLayout = "2 de January de 2006, 15:04"

// FormatHistoryDate renders t the way the site shows history dates,
// e.g. "17 de octubre de 2026, 09:05".
func FormatHistoryDate(t time.Time) string {
	return monday.Format(t, historyDateLayout, monday.LocaleEsES)
}
