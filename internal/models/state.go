package models

// AppState is the whole persisted state of the single local profile.
type AppState struct {
	Profile        *UserProfile     `json:"profile"`
	Subjects       []Subject        `json:"subjects"`
	Schedule       WeeklySchedule   `json:"schedule"`
	RedeemedCycles int              `json:"redeemed_cycles"`
	Target         PredictionTarget `json:"target"`
}
