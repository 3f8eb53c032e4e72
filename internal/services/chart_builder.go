package services

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/irfndi/augur-ai-go/internal/models"
)

// trendWindow is the default smoothing window for the overlay drawn on
// the historical curve. Shorter series shrink it to half their length.
const trendWindow = 12

// ChartBuilder assembles the aligned curves for a series and its
// forecast and rasterizes them into a PNG.
type ChartBuilder struct {
	logger *logrus.Logger
}

// NewChartBuilder creates a new chart builder service.
func NewChartBuilder(logger *logrus.Logger) *ChartBuilder {
	return &ChartBuilder{logger: logger}
}

// Build assembles a chart payload from history and forecast. Rendering
// failures are logged and leave Image empty; callers still receive the
// aligned curves.
func (cb *ChartBuilder) Build(series *models.TimeSeries, forecast *models.Forecast) *models.ChartPayload {
	payload := &models.ChartPayload{
		HistoricalDates:  series.Timestamps,
		HistoricalValues: series.Values,
		TrendValues:      cb.trendOverlay(series.Values),
		ForecastDates:    forecast.Timestamps,
		ForecastValues:   forecast.Values,
		LowerBand:        forecast.Lower,
		UpperBand:        forecast.Upper,
	}

	image, err := cb.render(payload, series.Name)
	if err != nil {
		cb.logger.WithError(err).Warn("Chart rendering failed, returning payload without image")
		return payload
	}
	payload.Image = image
	return payload
}

// trendOverlay smooths the history with a simple moving average. The
// result aligns with the tail of the historical dates: entry i belongs
// to timestamp i+window-1.
func (cb *ChartBuilder) trendOverlay(values []float64) []float64 {
	window := trendWindow
	if half := len(values) / 2; half < window {
		window = half
	}
	if window < 2 {
		return nil
	}

	sma := trend.NewSmaWithPeriod[float64](window)
	return helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
}

func (cb *ChartBuilder) render(payload *models.ChartPayload, seriesName string) (string, error) {
	curves := []chart.Series{
		chart.TimeSeries{
			Name:    "Historical",
			XValues: payload.HistoricalDates,
			YValues: payload.HistoricalValues,
			Style:   chart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 2},
		},
	}

	if len(payload.TrendValues) > 0 {
		offset := len(payload.HistoricalDates) - len(payload.TrendValues)
		curves = append(curves, chart.TimeSeries{
			Name:    "Trend",
			XValues: payload.HistoricalDates[offset:],
			YValues: payload.TrendValues,
			Style:   chart.Style{StrokeColor: drawing.Color{R: 44, G: 160, B: 44, A: 255}, StrokeWidth: 1.5},
		})
	}

	bandStyle := chart.Style{
		StrokeColor:     drawing.Color{R: 255, G: 80, B: 80, A: 200},
		StrokeWidth:     1,
		StrokeDashArray: []float64{2, 2},
	}
	curves = append(curves,
		chart.TimeSeries{
			Name:    "Forecast",
			XValues: payload.ForecastDates,
			YValues: payload.ForecastValues,
			Style:   chart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2, StrokeDashArray: []float64{5, 5}},
		},
		chart.TimeSeries{
			Name:    "Lower 95%",
			XValues: payload.ForecastDates,
			YValues: payload.LowerBand,
			Style:   bandStyle,
		},
		chart.TimeSeries{
			Name:    "Upper 95%",
			XValues: payload.ForecastDates,
			YValues: payload.UpperBand,
			Style:   bandStyle,
		},
	)

	graph := chart.Chart{
		Title:  fmt.Sprintf("Forecast: %s", seriesName),
		Width:  1200,
		Height: 600,
		XAxis:  chart.XAxis{Name: "Date"},
		YAxis:  chart.YAxis{Name: seriesName},
		Series: curves,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
