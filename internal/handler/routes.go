package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the estimator endpoints on router
func RegisterRoutes(router *gin.Engine, predict *PredictHandler, health *HealthHandler, history *HistoryHandler) {
	router.GET("/health", health.Health)
	router.GET("/version", health.Version)

	// Unversioned path kept for existing form clients
	router.POST("/predict", predict.Predict)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/predict", predict.Predict)
		apiV1.GET("/schema", predict.Schema)

		apiV1.GET("/predictions/:id", history.GetPrediction)
		apiV1.GET("/predictions/:id/similar", history.Similar)
	}
}
