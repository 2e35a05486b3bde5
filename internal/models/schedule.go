package models

import "time"

// DateKeyLayout formats schedule keys.
const DateKeyLayout = "2006-01-02"

// ScheduleSession is one of the three study sessions of a day.
type ScheduleSession string

const (
	SessionMorning   ScheduleSession = "morning"
	SessionAfternoon ScheduleSession = "afternoon"
	SessionEvening   ScheduleSession = "evening"
)

// Valid reports whether the session is known.
func (s ScheduleSession) Valid() bool {
	return s == SessionMorning || s == SessionAfternoon || s == SessionEvening
}

// ScheduleEntry holds the free-text plan for each session of a day.
type ScheduleEntry struct {
	Morning   string `json:"morning"`
	Afternoon string `json:"afternoon"`
	Evening   string `json:"evening"`
}

// IsEmpty reports whether nothing is planned.
func (e ScheduleEntry) IsEmpty() bool {
	return e.Morning == "" && e.Afternoon == "" && e.Evening == ""
}

// With returns a copy of the entry with one session replaced.
func (e ScheduleEntry) With(session ScheduleSession, value string) ScheduleEntry {
	switch session {
	case SessionMorning:
		e.Morning = value
	case SessionAfternoon:
		e.Afternoon = value
	case SessionEvening:
		e.Evening = value
	}
	return e
}

// WeeklySchedule maps a YYYY-MM-DD key to the plan of that day.
type WeeklySchedule map[string]ScheduleEntry

// ScheduleDay is a resolved calendar day of a week view.
type ScheduleDay struct {
	Date    string        `json:"date"`
	Weekday string        `json:"weekday"`
	IsToday bool          `json:"is_today"`
	Entry   ScheduleEntry `json:"entry"`
}

// ScheduleWeek is a Monday-first week view.
type ScheduleWeek struct {
	Start time.Time     `json:"start"`
	Days  []ScheduleDay `json:"days"`
}
