package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

// ExportHandler serves report card downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Report godoc
// @Summary Download the report card
// @Tags Exports
// @Produce octet-stream
// @Param period query string false "hk1, hk2 or yearly"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /exports/report [get]
func (h *ExportHandler) Report(c *gin.Context) {
	period, err := periodQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ReportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ReportFormatCSV))))
	result, err := h.service.Report(c.Request.Context(), period, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
