package handler

import (
	"errors"
	"net/http"

	"estimator/internal/model"
	"estimator/internal/service"

	"github.com/gin-gonic/gin"
)

// PredictHandler handles price prediction requests
type PredictHandler struct {
	estimator *service.EstimatorService
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(estimator *service.EstimatorService) *PredictHandler {
	return &PredictHandler{
		estimator: estimator,
	}
}

// Predict handles POST /predict and POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var raw model.RawInput
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.estimator.Predict(c.Request.Context(), raw)
	if err != nil {
		status, message := predictError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Schema handles GET /api/v1/schema
func (h *PredictHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.estimator.Schema())
}

// predictError maps an estimator error to a status code and client message
func predictError(err error) (int, string) {
	var validation *service.ValidationError
	var mismatch *service.FeatureSchemaMismatchError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, service.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "Model not loaded properly"
	case errors.As(err, &mismatch):
		return http.StatusInternalServerError, mismatch.Error()
	default:
		return http.StatusInternalServerError, "Prediction failed: " + err.Error()
	}
}
