package progress

// Statistics holds completion counts for the fixed categories. Total counts
// every completion, including those in categories outside the fixed set.
type Statistics struct {
	Total        int `json:"total"`
	Libros       int `json:"libros"`
	Devocionales int `json:"devocionales"`
	Aplicaciones int `json:"aplicaciones"`
	Musica       int `json:"musica"`
	Fondos       int `json:"fondos"`
}

func (s *Statistics) add(category string) {
	switch category {
	case CategoryBooks:
		s.Libros++
	case CategoryDevotionals:
		s.Devocionales++
	case CategoryApps:
		s.Aplicaciones++
	case CategoryMusic:
		s.Musica++
	case CategoryWallpapers:
		s.Fondos++
	}
}

// Count returns the completed count for one fixed category, or zero
func (s Statistics) Count(category string) int {
	switch category {
	case CategoryBooks:
		return s.Libros
	case CategoryDevotionals:
		return s.Devocionales
	case CategoryApps:
		return s.Aplicaciones
	case CategoryMusic:
		return s.Musica
	case CategoryWallpapers:
		return s.Fondos
	default:
		return 0
	}
}

// Percent returns completed as a share of total in [0, 100]. A zero total
// yields 0.
func Percent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
