package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/middleware"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	return middleware.SessionClaims(c)
}

// periodQuery reads ?period=, defaulting to the first semester.
func periodQuery(c *gin.Context) (models.Period, error) {
	raw := strings.ToLower(strings.TrimSpace(c.DefaultQuery("period", string(models.PeriodHK1))))
	period := models.Period(raw)
	if !period.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "period must be hk1, hk2 or yearly")
	}
	return period, nil
}

func bindJSON(c *gin.Context, dest interface{}, what string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+what+" payload"))
		return false
	}
	return true
}
