package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

// UploadInterface defines the custom-data operations the handler needs.
type UploadInterface interface {
	Process(ctx context.Context, r io.Reader) *models.UploadResponse
	Predict(ctx context.Context, steps int, withPlot bool) *models.ForecastResponse
	Status() *models.CustomStatusResponse
}

// UploadHandler serves the custom CSV pipeline: upload, predict and status.
type UploadHandler struct {
	service      UploadInterface
	maxFileBytes int64
	defaultSteps int
	maxSteps     int
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(service UploadInterface, maxFileBytes int64, defaultSteps, maxSteps int) *UploadHandler {
	return &UploadHandler{
		service:      service,
		maxFileBytes: maxFileBytes,
		defaultSteps: defaultSteps,
		maxSteps:     maxSteps,
	}
}

// Upload handles POST /upload-csv. A successful upload replaces any
// previously loaded dataset.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		verr := utils.NewValidationError("csv_file form field is required")
		c.JSON(http.StatusBadRequest, &models.UploadResponse{Error: verr.Error()})
		return
	}

	if err := h.validateUpload(fileHeader.Filename, fileHeader.Size); err != nil {
		c.JSON(http.StatusBadRequest, &models.UploadResponse{Error: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.UploadResponse{Error: "failed to read uploaded file"})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	resp := h.service.Process(c.Request.Context(), file)
	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// validateUpload enforces the extension and size limits on an incoming
// file before any bytes are read.
func (h *UploadHandler) validateUpload(filename string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return utils.NewValidationError("file must be in CSV format")
	}
	if size > h.maxFileBytes {
		return utils.NewValidationErrorf("file is too large (max %d MB)", h.maxFileBytes/(1024*1024))
	}
	return nil
}

// Predict handles POST /predict-custom-data. The response includes a
// rendered chart.
func (h *UploadHandler) Predict(c *gin.Context) {
	steps, err := parseSteps(c.PostForm("steps"), h.defaultSteps, h.maxSteps)
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.ForecastResponse{Error: err.Error()})
		return
	}

	resp := h.service.Predict(c.Request.Context(), steps, true)
	c.JSON(forecastStatus(resp), resp)
}

// Status handles GET /api/custom-status.
func (h *UploadHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}
