package virtualscroll

import "vscroll/internal/domain"

// GetPlaceholders returns the spacer heights above and below r.
// Top + rendered + Bottom always equals heights.Total().
func GetPlaceholders(r domain.Range, heights ItemHeightStore) domain.Placeholders {
	stop := clampInt(r.Stop, 0, heights.Len())
	start := clampInt(r.Start, 0, stop)
	return domain.Placeholders{
		Top:    heights.Offset(start),
		Bottom: heights.Total() - heights.Offset(stop),
	}
}
