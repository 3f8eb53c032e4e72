// Package api wires HTTP routes to their handlers.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/irfndi/augur-ai-go/internal/api/handlers"
)

// SetupRoutes registers all endpoints on the router.
func SetupRoutes(router *gin.Engine, forecast *handlers.ForecastHandler, upload *handlers.UploadHandler, health *handlers.HealthHandler) {
	router.GET("/", forecast.Home)
	router.GET("/health", health.Check)

	// Bundled model API
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/status", forecast.Status)
		apiGroup.POST("/forecast", forecast.Create)
		apiGroup.GET("/forecast/:steps", forecast.GetBySteps)
		apiGroup.GET("/custom-status", upload.Status)
	}

	// Custom data pipeline
	router.POST("/upload-csv", upload.Upload)
	router.POST("/predict-custom-data", upload.Predict)
}
