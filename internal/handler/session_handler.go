package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

// SessionHandler wires HTTP endpoints to the session service.
type SessionHandler struct {
	service *service.SessionService
	catalog *catalog.Catalog
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService, cat *catalog.Catalog) *SessionHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &SessionHandler{service: svc, catalog: cat}
}

// CatalogResponse lists the subjects a student can pick.
type CatalogResponse struct {
	Graded           []catalog.Entry `json:"graded"`
	PassFail         []catalog.Entry `json:"pass_fail"`
	DefaultSelection []string        `json:"default_selection"`
}

// CurrentSession pairs the stored profile with the token claims.
type CurrentSession struct {
	Profile models.UserProfile    `json:"profile"`
	Claims  *models.SessionClaims `json:"claims,omitempty"`
}

// Login godoc
// @Summary Start a session
// @Description Save the student profile and issue a bearer token
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Student profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "session") {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Current godoc
// @Summary Current session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, CurrentSession{Profile: *profile, Claims: claimsFromContext(c)}, nil)
}

// Logout godoc
// @Summary End the session
// @Description Clears every stored record for the student
// @Tags Session
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Catalog godoc
// @Summary Subject catalog
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *SessionHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, CatalogResponse{
		Graded:           h.catalog.Graded(),
		PassFail:         h.catalog.PassFail(),
		DefaultSelection: h.catalog.DefaultSelection(),
	}, nil)
}
