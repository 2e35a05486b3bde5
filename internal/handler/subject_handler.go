package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

// SubjectHandler exposes the gradebook.
type SubjectHandler struct {
	service *service.GradebookService
}

// NewSubjectHandler creates a new handler.
func NewSubjectHandler(svc *service.GradebookService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// Select godoc
// @Summary Choose subjects
// @Description Replaces the subject list with empty subjects
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.SelectSubjectsRequest true "Subject names"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Select(c *gin.Context) {
	var req service.SelectSubjectsRequest
	if !bindJSON(c, &req, "subject selection") {
		return
	}
	subjects, err := h.service.SelectSubjects(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subjects)
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param period query string false "hk1, hk2 or yearly"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.service.List(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, map[string]interface{}{"count": len(list.Subjects)})
}

// Reset godoc
// @Summary Remove all subjects
// @Tags Subjects
// @Success 204
// @Router /subjects [delete]
func (h *SubjectHandler) Reset(c *gin.Context) {
	if err := h.service.ResetSubjects(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetScore godoc
// @Summary Write one score slot
// @Description A null value clears the slot
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.SetScoreRequest true "Score"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/scores [put]
func (h *SubjectHandler) SetScore(c *gin.Context) {
	var req service.SetScoreRequest
	if !bindJSON(c, &req, "score") {
		return
	}
	subject, err := h.service.SetScore(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Toggle godoc
// @Summary Toggle a pass-fail assessment
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.ToggleAssessmentRequest true "Assessment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/scores/toggle [post]
func (h *SubjectHandler) Toggle(c *gin.Context) {
	var req service.ToggleAssessmentRequest
	if !bindJSON(c, &req, "assessment") {
		return
	}
	subject, err := h.service.ToggleAssessment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Summary godoc
// @Summary GPA, rank and chart
// @Tags Subjects
// @Produce json
// @Param period query string false "hk1, hk2 or yearly"
// @Success 200 {object} response.Envelope
// @Router /summary [get]
func (h *SubjectHandler) Summary(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
