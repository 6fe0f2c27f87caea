// Package utils holds small shared helpers.
package utils

import "math"

// Round1 rounds to one decimal place. Rates are reported at this precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places, the precision of monetary averages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
