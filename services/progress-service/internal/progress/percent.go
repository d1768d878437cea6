package progress

import "math"

// Percent считает done/total в процентах с округлением половины вверх.
// При total == 0 возвращает 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return roundHalfUp(float64(done) * 100 / float64(total))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
