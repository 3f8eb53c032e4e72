package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

// ForecastInterface defines the bundled-model operations the handler needs.
type ForecastInterface interface {
	Status() *models.StatusResponse
	Forecast(ctx context.Context, steps int, withPlot bool) *models.ForecastResponse
}

// ForecastHandler serves forecasts from the bundled model.
type ForecastHandler struct {
	service      ForecastInterface
	defaultSteps int
	maxSteps     int
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(service ForecastInterface, defaultSteps, maxSteps int) *ForecastHandler {
	return &ForecastHandler{
		service:      service,
		defaultSteps: defaultSteps,
		maxSteps:     maxSteps,
	}
}

// Home summarizes the service and the bundled model state.
func (h *ForecastHandler) Home(c *gin.Context) {
	status := h.service.Status()
	c.JSON(http.StatusOK, gin.H{
		"service":      ServiceName,
		"model_loaded": status.ModelLoaded,
		"model_info":   status.ModelInfo,
	})
}

// Status handles GET /api/status.
func (h *ForecastHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}

// Create handles POST /api/forecast. The response includes a rendered chart.
func (h *ForecastHandler) Create(c *gin.Context) {
	steps, err := parseSteps(c.PostForm("steps"), h.defaultSteps, h.maxSteps)
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.ForecastResponse{Error: err.Error()})
		return
	}

	resp := h.service.Forecast(c.Request.Context(), steps, true)
	c.JSON(forecastStatus(resp), resp)
}

// GetBySteps handles GET /api/forecast/:steps. No chart is rendered.
func (h *ForecastHandler) GetBySteps(c *gin.Context) {
	steps, err := parseSteps(c.Param("steps"), h.defaultSteps, h.maxSteps)
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.ForecastResponse{Error: err.Error()})
		return
	}

	resp := h.service.Forecast(c.Request.Context(), steps, false)
	c.JSON(forecastStatus(resp), resp)
}

// parseSteps resolves a horizon parameter: empty means the default, anything
// else must be an integer in [1, max].
func parseSteps(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	steps, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewValidationErrorf("steps must be an integer, got %q", raw)
	}
	if steps < 1 || steps > max {
		return 0, utils.NewValidationErrorf("steps must be between 1 and %d", max)
	}
	return steps, nil
}

func forecastStatus(resp *models.ForecastResponse) int {
	if resp.Success {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
