package models

// SubjectType selects the averaging rule for a subject.
type SubjectType string

const (
	SubjectGraded   SubjectType = "graded"
	SubjectPassFail SubjectType = "pass-fail"
)

// Valid reports whether the type is known.
func (t SubjectType) Valid() bool {
	return t == SubjectGraded || t == SubjectPassFail
}

// PassStatus is the aggregated result of a pass-fail semester.
type PassStatus string

const (
	StatusPass PassStatus = "Pass"
	StatusFail PassStatus = "Fail"
)

// Semester identifies one of the two school semesters.
type Semester string

const (
	SemesterOne Semester = "hk1"
	SemesterTwo Semester = "hk2"
)

// Valid reports whether the semester is known.
func (s Semester) Valid() bool {
	return s == SemesterOne || s == SemesterTwo
}

// Period selects which derived result a computation reads.
type Period string

const (
	PeriodHK1    Period = "hk1"
	PeriodHK2    Period = "hk2"
	PeriodYearly Period = "yearly"
)

// Valid reports whether the period is known.
func (p Period) Valid() bool {
	return p == PeriodHK1 || p == PeriodHK2 || p == PeriodYearly
}

// Subject is one tracked school subject. Avg*, OverallAvg, Status* and
// Comment are derived from HK1/HK2 and must only be written by the grading
// package.
type Subject struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       SubjectType `json:"type"`
	HK1        ScoreEntry  `json:"hk1"`
	HK2        ScoreEntry  `json:"hk2"`
	Avg1       *float64    `json:"avg1"`
	Avg2       *float64    `json:"avg2"`
	OverallAvg *float64    `json:"overallAvg"`
	Status1    *PassStatus `json:"status1,omitempty"`
	Status2    *PassStatus `json:"status2,omitempty"`
	Comment    string      `json:"comment,omitempty"`
}

// Entry returns the raw assessments for a semester.
func (s *Subject) Entry(semester Semester) *ScoreEntry {
	if semester == SemesterTwo {
		return &s.HK2
	}
	return &s.HK1
}

// IsGraded reports whether the subject is averaged numerically.
func (s Subject) IsGraded() bool {
	return s.Type == SubjectGraded
}

// ValueFor returns the numeric result for the period.
func (s Subject) ValueFor(period Period) *float64 {
	switch period {
	case PeriodHK1:
		return s.Avg1
	case PeriodHK2:
		return s.Avg2
	default:
		return s.OverallAvg
	}
}

// StatusFor returns the pass-fail result for the period. The yearly status
// is the second semester's status.
func (s Subject) StatusFor(period Period) *PassStatus {
	if period == PeriodHK1 {
		return s.Status1
	}
	return s.Status2
}
