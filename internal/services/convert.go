package services

import (
	"github.com/shopspring/decimal"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/sarima"
)

// Forecaster is the one capability the facades need from a fitted
// model. Keeping it narrow lets the estimation engine be swapped
// without touching the pipeline.
type Forecaster interface {
	Forecast(steps int, confidence float64) (point, lower, upper []float64, err error)
}

// confidenceLevel is the two-sided interval level every pipeline requests.
const confidenceLevel = 0.95

// Wire date layouts. The bundled pipeline reports months, the upload
// pipeline full dates.
const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// SpecToOrder maps the pipeline's model spec onto the estimator order.
func SpecToOrder(spec models.ModelSpec) sarima.Order {
	order := sarima.Order{P: spec.P, D: spec.D, Q: spec.Q}
	if spec.Seasonal != nil {
		order.SP = spec.Seasonal.P
		order.SD = spec.Seasonal.D
		order.SQ = spec.Seasonal.Q
		order.M = spec.Seasonal.Period
	}
	return order
}

// orderToSpec is the inverse mapping, used when restoring a persisted
// model whose spec was not stored separately.
func orderToSpec(order sarima.Order) models.ModelSpec {
	spec := models.ModelSpec{P: order.P, D: order.D, Q: order.Q}
	if order.M > 0 {
		spec.Seasonal = &models.SeasonalSpec{P: order.SP, D: order.SD, Q: order.SQ, Period: order.M}
	}
	return spec
}

// predictionData formats a forecast for the wire.
func predictionData(f *models.Forecast, layout string) *models.PredictionData {
	dates := make([]string, len(f.Timestamps))
	for i, ts := range f.Timestamps {
		dates[i] = ts.Format(layout)
	}
	return &models.PredictionData{Dates: dates, Values: f.Values, LowerCI: f.Lower, UpperCI: f.Upper}
}

// historicalData formats the observed series for the wire.
func historicalData(s *models.TimeSeries, layout string) *models.HistoricalData {
	dates := make([]string, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		dates[i] = ts.Format(layout)
	}
	return &models.HistoricalData{Dates: dates, Values: s.Values}
}

// dateRange renders the observed span, e.g. "1949-01-01 to 1960-12-01".
func dateRange(s *models.TimeSeries, layout string) string {
	return s.Timestamps[0].Format(layout) + " to " + s.LastTimestamp().Format(layout)
}

// roundedStat rounds a display statistic to two decimals.
func roundedStat(v float64) *float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return &r
}

func failedForecast(err error) *models.ForecastResponse {
	return &models.ForecastResponse{Success: false, Error: err.Error()}
}

func failedUpload(err error) *models.UploadResponse {
	return &models.UploadResponse{Success: false, Error: err.Error()}
}
