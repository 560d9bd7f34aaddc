package output

import (
	"math"
)

// Percent returns done/total as a percentage, 0 when total is 0.
func Percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) * 100 / float64(total)
}

// RoundTo rounds f to the given number of decimal places.
func RoundTo(f float64, places int) float64 {
	multiplier := math.Pow(10, float64(places))
	return math.Round(f*multiplier) / multiplier
}
