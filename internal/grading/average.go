package grading

import (
	"github.com/noah-isme/hurricane-api/internal/models"
)

const (
	minTXCount  = 3
	weightGK    = 2.0
	weightCK    = 3.0
	weightExams = weightGK + weightCK
)

// SemesterAverage returns the weighted average of a graded semester, or nil
// unless at least three TX scores, GK and CK were entered. Every filled TX
// slot counts.
func SemesterAverage(entry models.ScoreEntry) *float64 {
	txs := entry.FilledTX()
	if len(txs) < minTXCount || entry.GK == nil || entry.CK == nil {
		return nil
	}
	sum := *entry.GK*weightGK + *entry.CK*weightCK
	for _, v := range txs {
		sum += v
	}
	avg := Round1(sum / (float64(len(txs)) + weightExams))
	return &avg
}

// SemesterStatus evaluates a pass-fail semester over tx1..tx3, gk and ck.
// The status is nil until all five are entered.
func SemesterStatus(entry models.ScoreEntry) *models.PassStatus {
	status := models.StatusPass
	for _, field := range models.PassFailFields {
		v, _ := entry.Field(field)
		if v == nil {
			return nil
		}
		if *v != 1 {
			status = models.StatusFail
		}
	}
	return &status
}

// YearlyAverage weights the second semester twice. Nil unless both semester
// averages exist.
func YearlyAverage(avg1, avg2 *float64) *float64 {
	if avg1 == nil || avg2 == nil {
		return nil
	}
	avg := Round1((*avg1 + *avg2*2) / 3)
	return &avg
}

// YearlyStatus is the second semester's pass-fail status.
func YearlyStatus(subject models.Subject) *models.PassStatus {
	return subject.Status2
}

// Derive recomputes every derived field of a subject from its raw entries.
// The argument is not modified.
func Derive(subject models.Subject) models.Subject {
	out := subject
	out.Avg1, out.Avg2, out.OverallAvg = nil, nil, nil
	out.Status1, out.Status2 = nil, nil

	switch subject.Type {
	case models.SubjectPassFail:
		out.Status1 = SemesterStatus(subject.HK1)
		out.Status2 = SemesterStatus(subject.HK2)
		out.Comment = PassFailComment(latestStatus(out))
	default:
		out.Avg1 = SemesterAverage(subject.HK1)
		out.Avg2 = SemesterAverage(subject.HK2)
		out.OverallAvg = YearlyAverage(out.Avg1, out.Avg2)
		out.Comment = Comment(latestAverage(out))
	}
	return out
}

// DeriveAll applies Derive to every subject.
func DeriveAll(subjects []models.Subject) []models.Subject {
	out := make([]models.Subject, len(subjects))
	for i, s := range subjects {
		out[i] = Derive(s)
	}
	return out
}

func latestAverage(s models.Subject) *float64 {
	switch {
	case s.OverallAvg != nil:
		return s.OverallAvg
	case s.Avg2 != nil:
		return s.Avg2
	default:
		return s.Avg1
	}
}

func latestStatus(s models.Subject) *models.PassStatus {
	if s.Status2 != nil {
		return s.Status2
	}
	return s.Status1
}

// Band names the colour band of an average.
type Band string

const (
	BandNone      Band = "none"
	BandWeak      Band = "weak"
	BandBelow     Band = "below"
	BandAverage   Band = "average"
	BandGood      Band = "good"
	BandExcellent Band = "excellent"
)

// BandOf classifies an average.
func BandOf(avg *float64) Band {
	if avg == nil {
		return BandNone
	}
	switch v := *avg; {
	case v < 3.5:
		return BandWeak
	case v < 5:
		return BandBelow
	case v < 6.5:
		return BandAverage
	case v < 8:
		return BandGood
	default:
		return BandExcellent
	}
}

// PendingComment is shown while a semester average cannot be computed.
const PendingComment = "Nhập đủ 3 TX + GK + CK"

var bandComments = map[Band]string{
	BandNone:      PendingComment,
	BandWeak:      "Kết quả yếu. Cần cải thiện nhiều và luyện tập thêm.",
	BandBelow:     "Kết quả chưa đạt. Cần nỗ lực hơn nữa.",
	BandAverage:   "Kết quả trung bình. Cần cố gắng hơn.",
	BandGood:      "Học tốt, nên duy trì phong độ.",
	BandExcellent: "Xuất sắc! Tiếp tục phát huy thế mạnh.",
}

// Comment returns the report-card remark for an average.
func Comment(avg *float64) string {
	return bandComments[BandOf(avg)]
}

// Pass-fail remarks.
const (
	PassComment    = "Đạt yêu cầu"
	FailComment    = "Cần cố gắng"
	UnratedComment = "Chưa đánh giá"
)

// PassFailComment returns the remark for a pass-fail status. A nil status
// has not been evaluated yet.
func PassFailComment(status *models.PassStatus) string {
	switch {
	case status == nil:
		return UnratedComment
	case *status == models.StatusPass:
		return PassComment
	default:
		return FailComment
	}
}
