package models

import (
	"fmt"
	"time"
)

// SeasonalSpec is the seasonal half of a SARIMA order.
type SeasonalSpec struct {
	P      int `json:"p"`
	D      int `json:"d"`
	Q      int `json:"q"`
	Period int `json:"period"`
}

// ModelSpec is a SARIMA-family order: the non-seasonal (p,d,q) triple plus
// an optional seasonal component. Immutable once chosen for a fit.
type ModelSpec struct {
	P        int           `json:"p"`
	D        int           `json:"d"`
	Q        int           `json:"q"`
	Seasonal *SeasonalSpec `json:"seasonal,omitempty"`
}

// OrderString renders the non-seasonal order the way clients expect it,
// e.g. "(1, 1, 1)".
func (s ModelSpec) OrderString() string {
	return fmt.Sprintf("(%d, %d, %d)", s.P, s.D, s.Q)
}

// SeasonalOrderString renders the seasonal order, e.g. "(1, 1, 1, 12)",
// or "None" when the spec has no seasonal component.
func (s ModelSpec) SeasonalOrderString() string {
	if s.Seasonal == nil {
		return "None"
	}
	return fmt.Sprintf("(%d, %d, %d, %d)", s.Seasonal.P, s.Seasonal.D, s.Seasonal.Q, s.Seasonal.Period)
}

// SelectSpec applies the adaptive order policy: always (1,1,1), plus a
// (1,1,1,period) seasonal component when the series has at least two full
// candidate cycles (24 observations), with period = min(12, n/2).
func SelectSpec(n int) ModelSpec {
	spec := ModelSpec{P: 1, D: 1, Q: 1}
	if n >= 24 {
		period := n / 2
		if period > 12 {
			period = 12
		}
		spec.Seasonal = &SeasonalSpec{P: 1, D: 1, Q: 1, Period: period}
	}
	return spec
}

// Forecast is the forecaster's output: point forecasts with a two-sided
// confidence band, index-aligned with future timestamps. All four slices
// have identical length.
type Forecast struct {
	Timestamps []time.Time `json:"timestamps"`
	Values     []float64   `json:"values"`
	Lower      []float64   `json:"lower"`
	Upper      []float64   `json:"upper"`
}

// Steps returns the forecast horizon length.
func (f *Forecast) Steps() int {
	return len(f.Values)
}

// PredictionData is the wire form of a forecast: formatted dates with
// point values and 95% interval bounds.
type PredictionData struct {
	Dates   []string  `json:"dates"`
	Values  []float64 `json:"values"`
	LowerCI []float64 `json:"lower_ci"`
	UpperCI []float64 `json:"upper_ci"`
}

// HistoricalData is the wire form of the observed series.
type HistoricalData struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// ModelInfo describes the active model for API clients. The bundled path
// fills the order fields; the upload path reports frequency and source
// column instead, matching what each pipeline knows about its data.
type ModelInfo struct {
	ModelType     string `json:"model_type"`
	Order         string `json:"order,omitempty"`
	SeasonalOrder string `json:"seasonal_order,omitempty"`
	DataPoints    int    `json:"data_points"`
	Frequency     string `json:"frequency,omitempty"`
	LastDate      string `json:"last_date,omitempty"`
	ValueColumn   string `json:"value_column,omitempty"`
}

// DataInfo summarizes an accepted upload for API clients.
type DataInfo struct {
	DatasetID   string   `json:"dataset_id"`
	DataPoints  int      `json:"data_points"`
	DateRange   string   `json:"date_range"`
	DateColumn  string   `json:"date_column"`
	ValueColumn string   `json:"value_column"`
	Frequency   string   `json:"frequency"`
	MeanValue   *float64 `json:"mean_value,omitempty"`
	StdValue    *float64 `json:"std_value,omitempty"`
}

// ForecastResponse is the uniform forecast envelope. Pipeline failures are
// recovered into Success=false with Error set and all data fields absent.
type ForecastResponse struct {
	Success        bool            `json:"success"`
	Predictions    *PredictionData `json:"predictions,omitempty"`
	HistoricalData *HistoricalData `json:"historical_data,omitempty"`
	ModelInfo      *ModelInfo      `json:"model_info,omitempty"`
	Steps          int             `json:"steps,omitempty"`
	Plot           string          `json:"plot,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// StatusResponse reports whether the bundled model is usable.
type StatusResponse struct {
	Success     bool       `json:"success"`
	ModelLoaded bool       `json:"model_loaded"`
	ModelInfo   *ModelInfo `json:"model_info,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// UploadResponse reports the outcome of a CSV upload.
type UploadResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	DataInfo *DataInfo `json:"data_info,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// CustomStatusResponse reports whether the upload slot holds data.
type CustomStatusResponse struct {
	Success       bool      `json:"success"`
	HasCustomData bool      `json:"has_custom_data"`
	DataInfo      *DataInfo `json:"data_info,omitempty"`
}

// ChartPayload carries the aligned curves the rendering layer draws:
// history, forecast, the interval band, and a smoothed trend overlay.
// Image holds the rasterized PNG as base64, empty when rendering failed.
type ChartPayload struct {
	HistoricalDates  []time.Time `json:"historical_dates"`
	HistoricalValues []float64   `json:"historical_values"`
	TrendValues      []float64   `json:"trend_values,omitempty"`
	ForecastDates    []time.Time `json:"forecast_dates"`
	ForecastValues   []float64   `json:"forecast_values"`
	LowerBand        []float64   `json:"lower_band"`
	UpperBand        []float64   `json:"upper_band"`
	Image            string      `json:"image,omitempty"`
}
