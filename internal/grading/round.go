package grading

import (
	"math"
	"strconv"

	"github.com/noah-isme/hurricane-api/internal/models"
)

// Round1 rounds half up to one decimal place.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func clampScore(v float64) float64 {
	return models.ClampScore(v)
}

// FormatScore renders a score without trailing zeros (7 rather than 7.0).
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
