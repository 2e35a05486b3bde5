package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

const icsContentType = "text/calendar; charset=utf-8"

// ScheduleHandler exposes the weekly study planner.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// ScheduleUpdateRequest replaces one session of a day.
type ScheduleUpdateRequest struct {
	Session models.ScheduleSession `json:"session" binding:"required"`
	Value   string                 `json:"value"`
}

// Week godoc
// @Summary Week containing a date
// @Tags Schedule
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	anchor, err := h.service.ParseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	week, err := h.service.Week(c.Request.Context(), anchor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Update godoc
// @Summary Edit one session
// @Description An empty value clears the session
// @Tags Schedule
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param payload body ScheduleUpdateRequest true "Session text"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/{date} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req ScheduleUpdateRequest
	if !bindJSON(c, &req, "schedule") {
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("date"), req.Session, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// ICS godoc
// @Summary Export the week as iCalendar
// @Tags Schedule
// @Produce text/calendar
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {file} file
// @Router /schedule/ics [get]
func (h *ScheduleHandler) ICS(c *gin.Context) {
	anchor, err := h.service.ParseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.service.ExportICS(c.Request.Context(), anchor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "HurricaneAI_LichHoc_"+anchor.Format(models.DateKeyLayout)+".ics", icsContentType, payload)
}
