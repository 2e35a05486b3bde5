package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

// PredictionHandler exposes score back-solving.
type PredictionHandler struct {
	service *service.PredictionService
}

// NewPredictionHandler creates a new handler.
func NewPredictionHandler(svc *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: svc}
}

// GoalRequest selects the rank goal.
type GoalRequest struct {
	Goal models.Goal `json:"goal" binding:"required"`
}

// StrongRequest names a subject to flag or unflag.
type StrongRequest struct {
	Subject string `json:"subject" binding:"required"`
}

// Predict godoc
// @Summary Required scores per subject
// @Tags Prediction
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /prediction [get]
func (h *PredictionHandler) Predict(c *gin.Context) {
	report, err := h.service.Predict(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// SetGoal godoc
// @Summary Change the rank goal
// @Tags Prediction
// @Accept json
// @Produce json
// @Param payload body GoalRequest true "Goal"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /prediction/goal [put]
func (h *PredictionHandler) SetGoal(c *gin.Context) {
	var req GoalRequest
	if !bindJSON(c, &req, "goal") {
		return
	}
	target, err := h.service.SetGoal(c.Request.Context(), req.Goal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, target, nil)
}

// ToggleStrong godoc
// @Summary Flag or unflag a strong subject
// @Description At most three subjects can be strong
// @Tags Prediction
// @Accept json
// @Produce json
// @Param payload body StrongRequest true "Subject"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /prediction/strong [post]
func (h *PredictionHandler) ToggleStrong(c *gin.Context) {
	var req StrongRequest
	if !bindJSON(c, &req, "strong subject") {
		return
	}
	target, err := h.service.ToggleStrong(c.Request.Context(), req.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, target, nil)
}
