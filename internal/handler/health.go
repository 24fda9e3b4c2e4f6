package handler

import (
	"net/http"

	"estimator/internal/service"

	"github.com/gin-gonic/gin"
)

// BuildInfo is stamped into the binary at link time
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// HealthHandler reports liveness and artifact state
type HealthHandler struct {
	estimator *service.EstimatorService
	build     BuildInfo
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(estimator *service.EstimatorService, build BuildInfo) *HealthHandler {
	return &HealthHandler{
		estimator: estimator,
		build:     build,
	}
}

// Health handles GET /health. It answers 200 even when degraded so the
// artifact flags stay observable.
func (h *HealthHandler) Health(c *gin.Context) {
	response := h.estimator.Health()
	response.Version = h.build.Version
	c.JSON(http.StatusOK, response)
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}
