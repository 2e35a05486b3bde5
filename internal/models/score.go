package models

import "fmt"

// ScoreField names one assessment slot of a semester entry.
type ScoreField string

const (
	FieldTX1 ScoreField = "tx1"
	FieldTX2 ScoreField = "tx2"
	FieldTX3 ScoreField = "tx3"
	FieldTX4 ScoreField = "tx4"
	FieldTX5 ScoreField = "tx5"
	FieldGK  ScoreField = "gk"
	FieldCK  ScoreField = "ck"
)

const (
	// MinScore and MaxScore bound every stored assessment value.
	MinScore = 0.0
	MaxScore = 10.0
)

// ScoreFields lists every slot in display order.
var ScoreFields = []ScoreField{FieldTX1, FieldTX2, FieldTX3, FieldTX4, FieldTX5, FieldGK, FieldCK}

// PassFailFields are the only slots evaluated for pass-fail subjects.
var PassFailFields = []ScoreField{FieldTX1, FieldTX2, FieldTX3, FieldGK, FieldCK}

// Valid reports whether the field is a known slot.
func (f ScoreField) Valid() bool {
	for _, known := range ScoreFields {
		if f == known {
			return true
		}
	}
	return false
}

// IsTX reports whether the field is one of the recurring assessments.
func (f ScoreField) IsTX() bool {
	return f != FieldGK && f != FieldCK && f.Valid()
}

// ScoreEntry holds one semester's raw assessments. A nil slot has not been
// entered yet; zero is a real score.
type ScoreEntry struct {
	TX1 *float64 `json:"tx1"`
	TX2 *float64 `json:"tx2"`
	TX3 *float64 `json:"tx3"`
	TX4 *float64 `json:"tx4"`
	TX5 *float64 `json:"tx5"`
	GK  *float64 `json:"gk"`
	CK  *float64 `json:"ck"`
}

// Field returns the value stored in a slot.
func (e ScoreEntry) Field(field ScoreField) (*float64, error) {
	slot, err := e.slot(field)
	if err != nil {
		return nil, err
	}
	return *slot, nil
}

// Set writes a slot, clamping the value into [MinScore, MaxScore]. A nil
// value clears the slot.
func (e *ScoreEntry) Set(field ScoreField, value *float64) error {
	slot, err := e.slot(field)
	if err != nil {
		return err
	}
	if value == nil {
		*slot = nil
		return nil
	}
	v := ClampScore(*value)
	*slot = &v
	return nil
}

// Clamp pulls every entered slot into [MinScore, MaxScore].
func (e *ScoreEntry) Clamp() {
	for _, field := range ScoreFields {
		slot, _ := e.slot(field)
		if *slot != nil {
			v := ClampScore(**slot)
			*slot = &v
		}
	}
}

// TX returns the five recurring slots in order.
func (e ScoreEntry) TX() []*float64 {
	return []*float64{e.TX1, e.TX2, e.TX3, e.TX4, e.TX5}
}

// FilledTX returns the values of the recurring slots that were entered.
func (e ScoreEntry) FilledTX() []float64 {
	values := make([]float64, 0, 5)
	for _, v := range e.TX() {
		if v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// IsEmpty reports whether no slot has been entered.
func (e ScoreEntry) IsEmpty() bool {
	for _, field := range ScoreFields {
		if v, _ := e.Field(field); v != nil {
			return false
		}
	}
	return true
}

func (e *ScoreEntry) slot(field ScoreField) (**float64, error) {
	switch field {
	case FieldTX1:
		return &e.TX1, nil
	case FieldTX2:
		return &e.TX2, nil
	case FieldTX3:
		return &e.TX3, nil
	case FieldTX4:
		return &e.TX4, nil
	case FieldTX5:
		return &e.TX5, nil
	case FieldGK:
		return &e.GK, nil
	case FieldCK:
		return &e.CK, nil
	default:
		return nil, fmt.Errorf("unknown score field %q", field)
	}
}

// ClampScore coerces a value into the valid score range.
func ClampScore(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
