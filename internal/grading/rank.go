package grading

import (
	"github.com/noah-isme/hurricane-api/internal/models"
)

// MinGradedForRank is the number of graded results required before a rank
// can be computed.
const MinGradedForRank = 6

type tier struct {
	rank         models.Rank
	maxFails     int
	floor        float64
	threshold    float64
	minAboveLine int
}

// Evaluated in order; the first satisfied tier wins.
var rankTiers = []tier{
	{rank: models.RankExcellent, maxFails: 0, floor: 6.5, threshold: 8.0, minAboveLine: 6},
	{rank: models.RankGood, maxFails: 0, floor: 5.0, threshold: 6.5, minAboveLine: 6},
	{rank: models.RankPass, maxFails: 1, floor: 3.5, threshold: 5.0, minAboveLine: 6},
}

// Rank computes the official rank of the collection for a period.
//
// Only graded subjects with a result for the period take part in the floor
// and threshold checks. Every pass-fail subject must have a status.
func Rank(subjects []models.Subject, period models.Period) models.Rank {
	values := gradedValues(subjects, period)
	if len(values) < MinGradedForRank {
		return models.RankInsufficient
	}

	fails := 0
	for _, s := range subjects {
		if s.IsGraded() {
			continue
		}
		status := s.StatusFor(period)
		if status == nil {
			return models.RankInsufficient
		}
		if *status != models.StatusPass {
			fails++
		}
	}

	for _, t := range rankTiers {
		if fails > t.maxFails {
			continue
		}
		above := 0
		floorOK := true
		for _, v := range values {
			if v < t.floor {
				floorOK = false
				break
			}
			if v >= t.threshold {
				above++
			}
		}
		if floorOK && above >= t.minAboveLine {
			return t.rank
		}
	}
	return models.RankFail
}

// GPA is the mean of the defined graded results for the period, rounded to
// one decimal. Zero when no graded subject has a result.
func GPA(subjects []models.Subject, period models.Period) float64 {
	values := gradedValues(subjects, period)
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Round1(sum / float64(len(values)))
}

// Summarize builds the dashboard statistics for a period. Subjects are
// expected in display order.
func Summarize(subjects []models.Subject, period models.Period) models.Summary {
	summary := models.Summary{
		Period: period,
		GPA:    GPA(subjects, period),
		Rank:   Rank(subjects, period),
		Chart:  make([]models.ChartPoint, 0, len(subjects)),
	}
	for _, s := range subjects {
		if !s.IsGraded() {
			if s.StatusFor(period) == nil {
				summary.PassFailPending++
			}
			continue
		}
		v := s.ValueFor(period)
		if v == nil {
			continue
		}
		summary.GradedWithData++
		summary.Chart = append(summary.Chart, models.ChartPoint{
			Subject: s.Name,
			Value:   *v,
			Band:    string(BandOf(v)),
		})
	}
	return summary
}

func gradedValues(subjects []models.Subject, period models.Period) []float64 {
	values := make([]float64, 0, len(subjects))
	for _, s := range subjects {
		if !s.IsGraded() {
			continue
		}
		if v := s.ValueFor(period); v != nil {
			values = append(values, *v)
		}
	}
	return values
}
