package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hurricane-api/internal/service"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
	"github.com/noah-isme/hurricane-api/pkg/response"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	store   Pinger
}

// NewMetricsHandler constructs a metrics handler. store may be nil.
func NewMetricsHandler(metrics *service.MetricsService, store Pinger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, store: store}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Store   string                  `json:"store,omitempty"`
	Metrics service.MetricsSnapshot `json:"metrics"`
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness with a metrics snapshot
// @Tags Observability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	res := HealthResponse{Status: "ok", Metrics: h.metrics.Snapshot()}
	if h.store != nil {
		res.Store = h.store.Name()
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Ready godoc
// @Summary Readiness of the state store
// @Tags Observability
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.store == nil {
		response.JSON(c, http.StatusOK, gin.H{"status": "ready"}, nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		response.Error(c, appErrors.Wrap(err, "STORE_UNAVAILABLE", http.StatusServiceUnavailable, "state store unreachable"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ready", "store": h.store.Name()}, nil)
}
