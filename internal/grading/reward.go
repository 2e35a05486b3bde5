package grading

import (
	"github.com/noah-isme/hurricane-api/internal/models"
)

// DefaultBarsPerCycle is the number of bars redeemed by one claim.
const DefaultBarsPerCycle = 10

// Bars earned by a perfect score in each slot kind.
const (
	barsPerTX = 1
	barsPerGK = 2
	barsPerCK = 3
)

// Quotes are shown after a successful redemption.
var Quotes = []string{
	"Chúc mừng bạn đã nỗ lực! 🌪️",
	"Chăm chỉ mới thành công! ✨",
	"Bứt phá mọi giới hạn cùng Hurricane AI! 🚀",
	"Học tập là chìa khóa của tương lai! 🔑",
	"Bạn đang đi đúng hướng đấy! 🌟",
	"Kiên trì là mẹ thành công! 💪",
}

// LifetimeBars counts perfect scores of graded subjects across both
// semesters.
func LifetimeBars(subjects []models.Subject) int {
	total := 0
	for _, s := range subjects {
		if !s.IsGraded() {
			continue
		}
		for _, entry := range []models.ScoreEntry{s.HK1, s.HK2} {
			for _, v := range entry.TX() {
				if isPerfect(v) {
					total += barsPerTX
				}
			}
			if isPerfect(entry.GK) {
				total += barsPerGK
			}
			if isPerfect(entry.CK) {
				total += barsPerCK
			}
		}
	}
	return total
}

// Rewards reports the progress bar after redeemed cycles are subtracted.
func Rewards(subjects []models.Subject, redeemed, barsPerCycle int) models.RewardSummary {
	if barsPerCycle <= 0 {
		barsPerCycle = DefaultBarsPerCycle
	}
	lifetime := LifetimeBars(subjects)
	current := lifetime - redeemed*barsPerCycle
	if current < 0 {
		current = 0
	}
	return models.RewardSummary{
		LifetimeBars:   lifetime,
		RedeemedCycles: redeemed,
		CurrentBars:    current,
		BarsPerCycle:   barsPerCycle,
		Claimable:      current >= barsPerCycle,
	}
}

func isPerfect(v *float64) bool {
	return v != nil && *v == models.MaxScore
}
