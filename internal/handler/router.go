package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/middleware"
)

// Handlers groups every HTTP handler served under the API prefix.
type Handlers struct {
	Session    *SessionHandler
	Subjects   *SubjectHandler
	Prediction *PredictionHandler
	Rewards    *RewardHandler
	Schedule   *ScheduleHandler
	Practice   *PracticeHandler
	Exports    *ExportHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts the observability endpoints at the root and the
// application API under prefix. Everything except login needs a bearer token.
func RegisterRoutes(r *gin.Engine, prefix string, auth middleware.TokenValidator, h Handlers) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/session", h.Session.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))

	secured.GET("/session", h.Session.Current)
	secured.DELETE("/session", h.Session.Logout)
	secured.GET("/catalog", h.Session.Catalog)

	secured.POST("/subjects", h.Subjects.Select)
	secured.GET("/subjects", h.Subjects.List)
	secured.DELETE("/subjects", h.Subjects.Reset)
	secured.PUT("/subjects/:id/scores", h.Subjects.SetScore)
	secured.POST("/subjects/:id/scores/toggle", h.Subjects.Toggle)
	secured.GET("/summary", h.Subjects.Summary)

	secured.GET("/prediction", h.Prediction.Predict)
	secured.PUT("/prediction/goal", h.Prediction.SetGoal)
	secured.POST("/prediction/strong", h.Prediction.ToggleStrong)

	secured.GET("/rewards", h.Rewards.Summary)
	secured.POST("/rewards/claim", h.Rewards.Claim)

	secured.GET("/schedule", h.Schedule.Week)
	secured.GET("/schedule/ics", h.Schedule.ICS)
	secured.PUT("/schedule/:date", h.Schedule.Update)

	secured.POST("/practice/suggestions", h.Practice.Suggestions)
	secured.POST("/practice/quiz", h.Practice.Quiz)
	secured.POST("/practice/quiz/document", h.Practice.QuizFromDocument)
	secured.POST("/practice/quiz/grade", h.Practice.GradeQuiz)
	secured.POST("/practice/quiz/sheet", h.Practice.QuizSheet)

	secured.GET("/exports/report", h.Exports.Report)
}
