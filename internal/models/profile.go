package models

// UserProfile identifies the single local student.
type UserProfile struct {
	Name      string `json:"name"`
	ClassName string `json:"className"`
}
