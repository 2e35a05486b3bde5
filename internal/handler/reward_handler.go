package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/service"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

// RewardHandler exposes the energy-bar counter.
type RewardHandler struct {
	service *service.RewardService
}

// NewRewardHandler creates a new handler.
func NewRewardHandler(svc *service.RewardService) *RewardHandler {
	return &RewardHandler{service: svc}
}

// Summary godoc
// @Summary Reward progress
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rewards [get]
func (h *RewardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Claim godoc
// @Summary Redeem a full cycle of bars
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rewards/claim [post]
func (h *RewardHandler) Claim(c *gin.Context) {
	claim, err := h.service.Claim(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, claim, nil)
}
