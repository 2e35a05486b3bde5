package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/middleware"
	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/service"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

// multipart framing allowance on top of the document limit
const uploadOverhead = 1 << 20

// PracticeHandler exposes AI suggestions and quizzes.
type PracticeHandler struct {
	practice *service.PracticeService
	export   *service.ExportService
}

// NewPracticeHandler creates a new handler.
func NewPracticeHandler(practice *service.PracticeService, export *service.ExportService) *PracticeHandler {
	return &PracticeHandler{practice: practice, export: export}
}

// Suggestions godoc
// @Summary Exercise suggestions
// @Description query searches freely, subject targets one subject, neither picks the weakest subject
// @Tags Practice
// @Accept json
// @Produce json
// @Param payload body service.SuggestRequest true "Suggestion request"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /practice/suggestions [post]
func (h *PracticeHandler) Suggestions(c *gin.Context) {
	var req service.SuggestRequest
	if !bindJSON(c, &req, "suggestion") {
		return
	}
	result, err := h.practice.Suggestions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.Cached)
	middleware.SetDegraded(c, result.Degraded)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// Quiz godoc
// @Summary Generate a topic quiz
// @Tags Practice
// @Accept json
// @Produce json
// @Param payload body service.QuizRequest true "Topic"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /practice/quiz [post]
func (h *PracticeHandler) Quiz(c *gin.Context) {
	var req service.QuizRequest
	if !bindJSON(c, &req, "quiz") {
		return
	}
	quiz, err := h.practice.GenerateQuiz(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quiz, nil)
}

// QuizFromDocument godoc
// @Summary Generate a quiz from a document
// @Description Accepts PDF, PNG, JPEG, WEBP or plain text
// @Tags Practice
// @Accept mpfd
// @Produce json
// @Param file formData file true "Document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /practice/quiz/document [post]
func (h *PracticeHandler) QuizFromDocument(c *gin.Context) {
	limit := h.practice.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+uploadOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrPayloadTooBig.Code, appErrors.ErrPayloadTooBig.Status, "document too large"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field required"))
		return
	}
	if header.Size > limit {
		response.Error(c, appErrors.Clone(appErrors.ErrPayloadTooBig, "document too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}

	quiz, err := h.practice.GenerateQuizFromDocument(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quiz, nil)
}

// GradeQuiz godoc
// @Summary Score submitted answers
// @Tags Practice
// @Accept json
// @Produce json
// @Param payload body service.GradeQuizRequest true "Quiz and answers"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /practice/quiz/grade [post]
func (h *PracticeHandler) GradeQuiz(c *gin.Context) {
	var req service.GradeQuizRequest
	if !bindJSON(c, &req, "answers") {
		return
	}
	result, err := h.practice.GradeQuiz(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// QuizSheet godoc
// @Summary Download a quiz as a text sheet
// @Tags Practice
// @Accept json
// @Produce plain
// @Param payload body models.Quiz true "Quiz"
// @Success 200 {file} file
// @Router /practice/quiz/sheet [post]
func (h *PracticeHandler) QuizSheet(c *gin.Context) {
	var quiz models.Quiz
	if !bindJSON(c, &quiz, "quiz") {
		return
	}
	result, err := h.export.QuizSheet(c.Request.Context(), quiz)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
