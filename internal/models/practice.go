package models

// Difficulty grades a practice suggestion.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyMedium   Difficulty = "Medium"
	DifficultyAdvanced Difficulty = "Advanced"
)

// ExerciseSuggestion is one recommended practice topic.
type ExerciseSuggestion struct {
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Count       int        `json:"count"`
	Description string     `json:"description"`
}

// SuggestionResult wraps suggestions with how they were produced.
type SuggestionResult struct {
	Subject     string               `json:"subject"`
	Score       float64              `json:"score"`
	Query       string               `json:"query,omitempty"`
	Suggestions []ExerciseSuggestion `json:"suggestions"`
	Degraded    bool                 `json:"degraded"`
	Cached      bool                 `json:"cached"`
	Message     string               `json:"message,omitempty"`
}

// Question is one multiple choice quiz item.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Quiz is a generated practice test.
type Quiz struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// QuestionResult reports one graded answer.
type QuestionResult struct {
	ID       int  `json:"id"`
	Selected *int `json:"selected"`
	Correct  int  `json:"correct"`
	IsRight  bool `json:"is_right"`
}

// QuizResult is the outcome of grading a submission.
type QuizResult struct {
	Topic   string           `json:"topic"`
	Total   int              `json:"total"`
	Correct int              `json:"correct"`
	Score   float64          `json:"score"`
	Results []QuestionResult `json:"results"`
}
