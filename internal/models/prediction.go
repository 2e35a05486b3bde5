package models

// Goal is the rank tier the student aims for.
type Goal string

const (
	GoalExcellent Goal = "excellent"
	GoalGood      Goal = "good"
)

// Valid reports whether the goal is known.
func (g Goal) Valid() bool {
	return g == GoalExcellent || g == GoalGood
}

// MaxStrongSubjects caps the strong-subject set.
const MaxStrongSubjects = 6

// StrongSet is the ordered list of subject names flagged as strong.
type StrongSet []string

// Contains reports whether name is flagged.
func (s StrongSet) Contains(name string) bool {
	for _, existing := range s {
		if existing == name {
			return true
		}
	}
	return false
}

// Toggle removes name when present, otherwise appends it unless the set is
// already full. The receiver is not modified.
func (s StrongSet) Toggle(name string) StrongSet {
	out := make(StrongSet, 0, len(s)+1)
	removed := false
	for _, existing := range s {
		if existing == name {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if removed {
		return out
	}
	if len(s) >= MaxStrongSubjects {
		return append(StrongSet{}, s...)
	}
	return append(out, name)
}

// PredictionTarget is the personalised prediction input.
type PredictionTarget struct {
	Goal   Goal      `json:"goal"`
	Strong StrongSet `json:"strong"`
}

// PredictionStatus tells whether the target is already reached.
type PredictionStatus string

const (
	PredictionAchieved PredictionStatus = "achieved"
	PredictionPending  PredictionStatus = "pending"
)

// SemesterNeeds lists the values still needed in one semester. A nil slot
// means nothing is required there.
type SemesterNeeds struct {
	TX *float64 `json:"tx"`
	GK *float64 `json:"gk"`
	CK *float64 `json:"ck"`
}

// IsEmpty reports whether no requirement was produced.
func (n SemesterNeeds) IsEmpty() bool {
	return n.TX == nil && n.GK == nil && n.CK == nil
}

// Prediction is the back-solved plan for one graded subject.
type Prediction struct {
	SubjectID string           `json:"subject_id"`
	Subject   string           `json:"subject"`
	Strong    bool             `json:"strong"`
	Target    float64          `json:"target"`
	Status    PredictionStatus `json:"status"`
	HK1       *SemesterNeeds   `json:"hk1,omitempty"`
	HK2       *SemesterNeeds   `json:"hk2,omitempty"`
	Comment   string           `json:"comment"`
}
