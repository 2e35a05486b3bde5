package models

// Rank is the official achievement tier computed over a period.
type Rank string

const (
	RankExcellent    Rank = "Tốt"
	RankGood         Rank = "Khá"
	RankPass         Rank = "Đạt"
	RankFail         Rank = "Chưa đạt"
	RankInsufficient Rank = "Chưa đủ"
)

// Ordinal orders ranks from lowest (0) to highest. Insufficient has no tier.
func (r Rank) Ordinal() int {
	switch r {
	case RankExcellent:
		return 4
	case RankGood:
		return 3
	case RankPass:
		return 2
	case RankFail:
		return 1
	default:
		return 0
	}
}

// ChartPoint is one bar of the averages chart.
type ChartPoint struct {
	Subject string  `json:"subject"`
	Value   float64 `json:"value"`
	Band    string  `json:"band"`
}

// Summary aggregates the dashboard statistics for a period.
type Summary struct {
	Period          Period       `json:"period"`
	GPA             float64      `json:"gpa"`
	Rank            Rank         `json:"rank"`
	GradedWithData  int          `json:"graded_with_data"`
	PassFailPending int          `json:"pass_fail_pending"`
	Chart           []ChartPoint `json:"chart"`
}
