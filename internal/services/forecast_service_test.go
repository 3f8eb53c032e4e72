package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/augur-ai-go/internal/cache"
	"github.com/irfndi/augur-ai-go/internal/config"
)

func newLoadedService(t *testing.T, forecastCache *cache.ForecastCache) *ForecastService {
	t.Helper()

	dir := t.TempDir()
	series := monthlySeries(48)
	model := fitSeries(t, series)
	store := NewArtifactStore(dir)
	require.NoError(t, store.Save(model, series))

	return NewForecastService(store, NewChartBuilder(testLogger()), forecastCache, testLogger())
}

func TestForecastService_DegradedWithoutArtifacts(t *testing.T) {
	store := NewArtifactStore(filepath.Join(t.TempDir(), "missing"))
	svc := NewForecastService(store, NewChartBuilder(testLogger()), nil, testLogger())

	assert.False(t, svc.ModelLoaded())

	status := svc.Status()
	assert.True(t, status.Success)
	assert.False(t, status.ModelLoaded)
	assert.Nil(t, status.ModelInfo)

	resp := svc.Forecast(context.Background(), 12, false)
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not loaded")
	assert.Nil(t, resp.Predictions)
}

func TestForecastService_StatusWhenLoaded(t *testing.T) {
	svc := newLoadedService(t, nil)

	assert.True(t, svc.ModelLoaded())

	status := svc.Status()
	assert.True(t, status.Success)
	assert.True(t, status.ModelLoaded)
	require.NotNil(t, status.ModelInfo)
	assert.Equal(t, "SARIMAX", status.ModelInfo.ModelType)
	assert.Equal(t, "(1, 1, 1)", status.ModelInfo.Order)
	assert.Equal(t, "(1, 1, 1, 12)", status.ModelInfo.SeasonalOrder)
	assert.Equal(t, 48, status.ModelInfo.DataPoints)
	assert.Equal(t, "1952-12", status.ModelInfo.LastDate)
}

func TestForecastService_Forecast(t *testing.T) {
	svc := newLoadedService(t, nil)

	resp := svc.Forecast(context.Background(), 12, false)
	require.NotNil(t, resp)
	require.True(t, resp.Success, "forecast failed: %s", resp.Error)
	assert.Equal(t, 12, resp.Steps)
	assert.Empty(t, resp.Plot)

	require.NotNil(t, resp.Predictions)
	require.Len(t, resp.Predictions.Dates, 12)
	assert.Equal(t, "1953-01", resp.Predictions.Dates[0])
	assert.Equal(t, "1953-12", resp.Predictions.Dates[11])
	for i := range resp.Predictions.Values {
		assert.Less(t, resp.Predictions.LowerCI[i], resp.Predictions.Values[i])
		assert.Greater(t, resp.Predictions.UpperCI[i], resp.Predictions.Values[i])
	}

	require.NotNil(t, resp.HistoricalData)
	assert.Len(t, resp.HistoricalData.Dates, 48)
	assert.Equal(t, "1949-01", resp.HistoricalData.Dates[0])

	require.NotNil(t, resp.ModelInfo)
	assert.Equal(t, "SARIMAX", resp.ModelInfo.ModelType)
}

func TestForecastService_ForecastWithPlot(t *testing.T) {
	svc := newLoadedService(t, nil)

	resp := svc.Forecast(context.Background(), 6, true)
	require.True(t, resp.Success, "forecast failed: %s", resp.Error)
	assert.NotEmpty(t, resp.Plot)
}

func TestForecastService_RejectsNonPositiveSteps(t *testing.T) {
	svc := newLoadedService(t, nil)

	resp := svc.Forecast(context.Background(), 0, false)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestForecastService_CachesResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	forecastCache, err := cache.NewForecastCache(config.RedisConfig{
		Host: mr.Host(),
		Port: port,
		TTL:  time.Minute,
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = forecastCache.Close() })

	svc := newLoadedService(t, forecastCache)

	first := svc.Forecast(context.Background(), 12, false)
	require.True(t, first.Success)
	assert.True(t, mr.Exists(fmt.Sprintf("forecast:steps:%d:plot:%t", 12, false)))

	second := svc.Forecast(context.Background(), 12, false)
	require.True(t, second.Success)
	assert.Equal(t, first.Predictions, second.Predictions)
	assert.Equal(t, first.ModelInfo, second.ModelInfo)
}
