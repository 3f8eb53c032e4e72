package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/sarima"
	"github.com/irfndi/augur-ai-go/internal/schema"
	"github.com/irfndi/augur-ai-go/internal/telemetry"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

// UploadService runs the full pipeline on user-supplied CSV data and
// holds the single current dataset/model pair in memory. Each
// successful upload fits a fresh model and replaces the slot wholesale;
// failed uploads leave the previous slot untouched. Nothing persists
// across restarts.
type UploadService struct {
	logger *logrus.Logger
	charts *ChartBuilder

	mu   sync.RWMutex
	slot *uploadSlot
}

// uploadSlot is the state published atomically by a successful upload.
// A fitted model is immutable, so readers may forecast from a snapshot
// without holding the lock.
type uploadSlot struct {
	model  Forecaster
	series *models.TimeSeries
	info   *models.DataInfo
}

// NewUploadService creates an upload service with an empty slot.
func NewUploadService(charts *ChartBuilder, logger *logrus.Logger) *UploadService {
	return &UploadService{logger: logger, charts: charts}
}

// Process validates, regularizes and fits an uploaded CSV. All pipeline
// failures are recovered into an envelope with Success=false. The slot
// is only replaced after the fit succeeds, so concurrent forecasts
// never observe a half-built state.
func (us *UploadService) Process(ctx context.Context, r io.Reader) *models.UploadResponse {
	_, span := telemetry.Tracer().Start(ctx, "pipeline.upload")
	defer span.End()

	fail := func(err error) *models.UploadResponse {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload pipeline failed")
		return failedUpload(err)
	}

	table, err := schema.ParseCSV(r)
	if err != nil {
		return fail(err)
	}
	if err := schema.ValidateTable(table); err != nil {
		return fail(err)
	}

	timeCol, valueCol, err := schema.Infer(table)
	if err != nil {
		return fail(err)
	}

	series, err := schema.Regularize(table, timeCol, valueCol)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.Int("upload.rows", series.Len()),
		attribute.String("upload.frequency", string(series.Frequency)),
		attribute.String("upload.value_column", valueCol),
	)

	spec := models.SelectSpec(series.Len())
	model := sarima.New(SpecToOrder(spec))
	if err := model.Fit(series.Values); err != nil {
		us.logger.WithError(err).Warn("Model fit failed for uploaded data")
		return fail(err)
	}

	info := &models.DataInfo{
		DatasetID:   uuid.NewString(),
		DataPoints:  series.Len(),
		DateRange:   dateRange(series, dayLayout),
		DateColumn:  timeCol,
		ValueColumn: valueCol,
		Frequency:   string(series.Frequency),
		MeanValue:   roundedStat(series.Mean()),
		StdValue:    roundedStat(series.Std()),
	}

	us.mu.Lock()
	us.slot = &uploadSlot{model: model, series: series, info: info}
	us.mu.Unlock()

	us.logger.WithFields(logrus.Fields{
		"dataset_id":   info.DatasetID,
		"data_points":  info.DataPoints,
		"frequency":    info.Frequency,
		"time_column":  timeCol,
		"value_column": valueCol,
		"order":        spec.OrderString(),
	}).Info("Custom dataset loaded and model fitted")

	return &models.UploadResponse{
		Success:  true,
		Message:  fmt.Sprintf("data loaded successfully: %d points", series.Len()),
		DataInfo: info,
	}
}

// Predict forecasts from the current uploaded dataset. With an empty
// slot it fails fast with a not-loaded error.
func (us *UploadService) Predict(ctx context.Context, steps int, withPlot bool) *models.ForecastResponse {
	_, span := telemetry.Tracer().Start(ctx, "forecast.custom")
	defer span.End()
	span.SetAttributes(
		attribute.Int("forecast.steps", steps),
		attribute.Bool("forecast.with_plot", withPlot),
	)

	us.mu.RLock()
	slot := us.slot
	us.mu.RUnlock()

	if slot == nil {
		err := utils.NewNotLoadedError("no custom data loaded, upload a CSV file first")
		span.SetStatus(codes.Error, err.Error())
		return failedForecast(err)
	}

	point, lower, upper, err := slot.model.Forecast(steps, confidenceLevel)
	if err != nil {
		us.logger.WithError(err).Error("Custom data forecast failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "forecast failed")
		return failedForecast(err)
	}

	forecast := &models.Forecast{
		Timestamps: slot.series.FutureTimestamps(steps),
		Values:     point,
		Lower:      lower,
		Upper:      upper,
	}

	resp := &models.ForecastResponse{
		Success:        true,
		Predictions:    predictionData(forecast, dayLayout),
		HistoricalData: historicalData(slot.series, dayLayout),
		ModelInfo: &models.ModelInfo{
			ModelType:   "SARIMAX (custom data)",
			DataPoints:  slot.series.Len(),
			Frequency:   string(slot.series.Frequency),
			LastDate:    slot.series.LastTimestamp().Format(dayLayout),
			ValueColumn: slot.info.ValueColumn,
		},
		Steps: steps,
	}
	if withPlot {
		resp.Plot = us.charts.Build(slot.series, forecast).Image
	}
	return resp
}

// Status reports whether the slot currently holds data.
func (us *UploadService) Status() *models.CustomStatusResponse {
	us.mu.RLock()
	defer us.mu.RUnlock()

	if us.slot == nil {
		return &models.CustomStatusResponse{Success: true, HasCustomData: false}
	}
	return &models.CustomStatusResponse{Success: true, HasCustomData: true, DataInfo: us.slot.info}
}
