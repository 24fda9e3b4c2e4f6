package handler

import (
	"errors"
	"net/http"
	"strconv"

	"estimator/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves audited predictions
type HistoryHandler struct {
	estimator    *service.EstimatorService
	defaultLimit int
	maxLimit     int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(estimator *service.EstimatorService, defaultLimit, maxLimit int) *HistoryHandler {
	return &HistoryHandler{
		estimator:    estimator,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// GetPrediction handles GET /api/v1/predictions/:id
func (h *HistoryHandler) GetPrediction(c *gin.Context) {
	entry, err := h.estimator.GetPrediction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Similar handles GET /api/v1/predictions/:id/similar?limit=n
func (h *HistoryHandler) Similar(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, h.maxLimit)
	}

	similar, err := h.estimator.SimilarPredictions(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prediction_id": c.Param("id"),
		"similar":       similar,
		"total":         len(similar),
	})
}

func (h *HistoryHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHistoryDisabled), errors.Is(err, service.ErrPredictionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prediction history: " + err.Error()})
	}
}
