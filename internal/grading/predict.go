package grading

import (
	"fmt"
	"math"

	"github.com/noah-isme/hurricane-api/internal/models"
)

const (
	targetExcellentStrong = 9.0
	targetGoodStrong      = 8.0
	targetBaseline        = 6.5
)

// TargetFor returns the yearly average a subject must reach for the goal.
func TargetFor(goal models.Goal, strong bool) float64 {
	if !strong {
		return targetBaseline
	}
	if goal == models.GoalExcellent {
		return targetExcellentStrong
	}
	return targetGoodStrong
}

// RequiredSecondSemester inverts the yearly formula for the missing second
// semester average.
func RequiredSecondSemester(avg1, target float64) float64 {
	return math.Max(0, Round1((3*target-avg1)/2))
}

// PredictSemester back-solves the remaining assessments of a semester for a
// target average. When both exams are already entered, or only CK is, no
// requirement is produced.
func PredictSemester(entry models.ScoreEntry, target float64) models.SemesterNeeds {
	txs := entry.FilledTX()
	txCount := math.Max(minTXCount, float64(len(txs)))
	sum := 0.0
	for _, v := range txs {
		sum += v
	}
	totalNeeded := target * (txCount + weightExams)

	var needs models.SemesterNeeds
	switch {
	case entry.GK == nil && entry.CK == nil:
		remainingTX := math.Max(0, float64(minTXCount-len(txs)))
		per := clampScore(Round1((totalNeeded - sum) / (remainingTX + weightExams)))
		if remainingTX > 0 {
			needs.TX = models.Float(per)
		}
		needs.GK = models.Float(per)
		needs.CK = models.Float(per)
	case entry.GK != nil && entry.CK == nil:
		ck := clampScore(Round1((totalNeeded - (sum + *entry.GK*weightGK)) / weightCK))
		needs.CK = &ck
	}
	return needs
}

// PredictSubject builds the yearly plan for one graded subject.
func PredictSubject(subject models.Subject, goal models.Goal, strong bool) models.Prediction {
	target := TargetFor(goal, strong)
	p := models.Prediction{
		SubjectID: subject.ID,
		Subject:   subject.Name,
		Strong:    strong,
		Target:    target,
		Status:    models.PredictionPending,
	}

	if subject.OverallAvg != nil && *subject.OverallAvg >= target {
		p.Status = models.PredictionAchieved
		p.Comment = fmt.Sprintf("Chúc mừng! Bạn đã đạt mục tiêu môn %s. Hãy tiếp tục duy trì phong độ này.", subject.Name)
		return p
	}

	if subject.Avg1 == nil {
		hk1 := PredictSemester(subject.HK1, target)
		p.HK1 = &hk1
		p.HK2 = &models.SemesterNeeds{TX: models.Float(target), GK: models.Float(target), CK: models.Float(target)}
		p.Comment = fmt.Sprintf("Bạn cần tập trung ngay từ Học kì I. Mục tiêu trung bình mỗi kì là %s.", FormatScore(target))
		return p
	}

	avg1 := *subject.Avg1
	required := RequiredSecondSemester(avg1, target)
	switch {
	case subject.Avg2 == nil:
		hk2 := PredictSemester(subject.HK2, required)
		p.HK2 = &hk2
		if avg1 >= target {
			p.Comment = fmt.Sprintf("Học kì I tốt (%s). HK II chỉ cần duy trì khoảng %s để đạt mục tiêu.", FormatScore(avg1), FormatScore(required))
		} else {
			p.Comment = fmt.Sprintf("Học kì I hơi thấp (%s). Bạn cần bứt phá ở HK II với điểm trung bình %s.", FormatScore(avg1), FormatScore(required))
		}
	case subject.OverallAvg != nil && *subject.OverallAvg < target:
		p.Comment = fmt.Sprintf("Kết quả cả năm (%s) chưa đạt mục tiêu %s. Hãy cố gắng hơn ở năm học tới!", FormatScore(*subject.OverallAvg), FormatScore(target))
	}
	return p
}

// PredictAll predicts every graded subject, preserving order.
func PredictAll(subjects []models.Subject, target models.PredictionTarget) []models.Prediction {
	out := make([]models.Prediction, 0, len(subjects))
	for _, s := range subjects {
		if !s.IsGraded() {
			continue
		}
		out = append(out, PredictSubject(s, target.Goal, target.Strong.Contains(s.Name)))
	}
	return out
}
