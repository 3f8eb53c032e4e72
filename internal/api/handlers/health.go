package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ServiceName identifies this service in health and home responses.
const ServiceName = "time-series-forecasting"

var startTime = time.Now()

// HealthHandler reports service liveness and basic host metrics.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// SystemStats carries point-in-time host resource usage.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	Goroutines    int     `json:"goroutines"`
}

// HealthResponse is the health endpoint contract.
type HealthResponse struct {
	Status  string       `json:"status"`
	Service string       `json:"service"`
	Uptime  string       `json:"uptime"`
	System  *SystemStats `json:"system,omitempty"`
}

// Check handles GET /health. Host metrics are best effort and omitted
// from the stats when the probes fail.
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
	}

	stats := SystemStats{Goroutines: runtime.NumGoroutine()}
	if memInfo, err := mem.VirtualMemoryWithContext(c.Request.Context()); err == nil {
		stats.MemoryPercent = memInfo.UsedPercent
		stats.MemoryTotalMB = memInfo.Total / (1024 * 1024)
	}
	if cpuPercent, err := cpu.PercentWithContext(c.Request.Context(), 0, false); err == nil && len(cpuPercent) > 0 {
		stats.CPUPercent = cpuPercent[0]
	}
	response.System = &stats

	c.JSON(http.StatusOK, response)
}
