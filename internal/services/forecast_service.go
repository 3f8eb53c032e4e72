package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/irfndi/augur-ai-go/internal/cache"
	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/telemetry"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

// ForecastService serves forecasts from the model trained offline on the
// bundled dataset. Artifacts are loaded once at construction; when
// loading fails the service stays up in a degraded state and every
// forecast fails fast with a not-loaded error.
type ForecastService struct {
	logger *logrus.Logger
	charts *ChartBuilder
	cache  *cache.ForecastCache

	model  Forecaster
	spec   models.ModelSpec
	series *models.TimeSeries
}

// NewForecastService loads the bundled artifacts from store. The cache
// may be nil, which disables response caching. A load failure leaves the
// service degraded rather than failing construction.
func NewForecastService(store *ArtifactStore, charts *ChartBuilder, forecastCache *cache.ForecastCache, logger *logrus.Logger) *ForecastService {
	svc := &ForecastService{logger: logger, charts: charts, cache: forecastCache}

	model, series, err := store.Load()
	if err != nil {
		logger.WithError(err).Warn("Bundled model not loaded, run the trainer to produce artifacts")
		return svc
	}

	svc.model = model
	svc.spec = orderToSpec(model.Order)
	svc.series = series
	logger.WithFields(logrus.Fields{
		"order":       model.Order.String(),
		"data_points": series.Len(),
		"last_date":   series.LastTimestamp().Format(monthLayout),
	}).Info("Bundled forecast model loaded")
	return svc
}

// ModelLoaded reports whether the bundled artifacts were loaded.
func (fs *ForecastService) ModelLoaded() bool {
	return fs.model != nil && fs.series != nil
}

// Status reports the bundled model state for the status endpoint.
func (fs *ForecastService) Status() *models.StatusResponse {
	if !fs.ModelLoaded() {
		return &models.StatusResponse{Success: true, ModelLoaded: false}
	}
	return &models.StatusResponse{Success: true, ModelLoaded: true, ModelInfo: fs.modelInfo()}
}

func (fs *ForecastService) modelInfo() *models.ModelInfo {
	return &models.ModelInfo{
		ModelType:     "SARIMAX",
		Order:         fs.spec.OrderString(),
		SeasonalOrder: fs.spec.SeasonalOrderString(),
		DataPoints:    fs.series.Len(),
		LastDate:      fs.series.LastTimestamp().Format(monthLayout),
	}
}

// Forecast produces a steps-ahead forecast from the bundled model.
// Pipeline failures are recovered into an envelope with Success=false;
// a failed forecast never crashes the serving process.
func (fs *ForecastService) Forecast(ctx context.Context, steps int, withPlot bool) *models.ForecastResponse {
	ctx, span := telemetry.Tracer().Start(ctx, "forecast.bundled")
	defer span.End()
	span.SetAttributes(
		attribute.Int("forecast.steps", steps),
		attribute.Bool("forecast.with_plot", withPlot),
	)

	if !fs.ModelLoaded() {
		err := utils.NewNotLoadedError("forecast model is not loaded")
		span.SetStatus(codes.Error, err.Error())
		return failedForecast(err)
	}

	if fs.cache != nil {
		if resp, ok := fs.cache.GetForecast(ctx, steps, withPlot); ok {
			span.SetAttributes(attribute.Bool("forecast.cache_hit", true))
			return resp
		}
	}

	point, lower, upper, err := fs.model.Forecast(steps, confidenceLevel)
	if err != nil {
		fs.logger.WithError(err).Error("Bundled forecast failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "forecast failed")
		return failedForecast(err)
	}

	forecast := &models.Forecast{
		Timestamps: fs.series.FutureTimestamps(steps),
		Values:     point,
		Lower:      lower,
		Upper:      upper,
	}

	resp := &models.ForecastResponse{
		Success:        true,
		Predictions:    predictionData(forecast, monthLayout),
		HistoricalData: historicalData(fs.series, monthLayout),
		ModelInfo:      fs.modelInfo(),
		Steps:          steps,
	}
	if withPlot {
		resp.Plot = fs.charts.Build(fs.series, forecast).Image
	}

	if fs.cache != nil {
		fs.cache.SetForecast(ctx, steps, withPlot, resp)
	}
	return resp
}
