package service

import (
	"fmt"
	"math"
)

// FormatPace renders a decimal minutes-per-km pace as "M:SS".
func FormatPace(minPerKm float64) string {
	if minPerKm <= 0 || math.IsNaN(minPerKm) || math.IsInf(minPerKm, 0) {
		return "-"
	}
	m := int(minPerKm)
	s := int(math.Round((minPerKm - float64(m)) * SecondsPerMinute))
	if s == 60 {
		m++
		s = 0
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDuration formats seconds as "H:MM:SS" or "M:SS"
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func isValidHeartrate(hr int) bool {
	return hr > MinValidHeartrate && hr < MaxValidHeartrate
}
