package cache

import (
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/augur-ai-go/internal/config"
	"github.com/irfndi/augur-ai-go/internal/models"
)

func newTestCache(t *testing.T) (*ForecastCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := NewForecastCache(config.RedisConfig{
		Host: mr.Host(),
		Port: port,
		TTL:  time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestNewForecastCache_UnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err = NewForecastCache(config.RedisConfig{Host: addr, Port: port, TTL: time.Minute}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestForecastCache_MissOnEmptyCache(t *testing.T) {
	c, _ := newTestCache(t)

	resp, ok := c.GetForecast(context.Background(), 12, false)
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestForecastCache_SetThenGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	stored := &models.ForecastResponse{
		Success: true,
		Steps:   12,
		Predictions: &models.PredictionData{
			Dates:   []string{"1961-01"},
			Values:  []float64{450.5},
			LowerCI: []float64{430.1},
			UpperCI: []float64{470.9},
		},
	}
	c.SetForecast(ctx, 12, false, stored)

	key := "forecast:steps:12:plot:false"
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	got, ok := c.GetForecast(ctx, 12, false)
	require.True(t, ok)
	assert.Equal(t, stored, got)

	// Entries are keyed by horizon and plot flag independently.
	_, ok = c.GetForecast(ctx, 12, true)
	assert.False(t, ok)
	_, ok = c.GetForecast(ctx, 24, false)
	assert.False(t, ok)
}

func TestForecastCache_ExpiredEntryMisses(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetForecast(ctx, 6, false, &models.ForecastResponse{Success: true, Steps: 6})
	mr.FastForward(2 * time.Minute)

	_, ok := c.GetForecast(ctx, 6, false)
	assert.False(t, ok)
}

func TestForecastCache_EvictsUndecodableEntry(t *testing.T) {
	c, mr := newTestCache(t)

	key := "forecast:steps:12:plot:false"
	require.NoError(t, mr.Set(key, "not json"))

	resp, ok := c.GetForecast(context.Background(), 12, false)
	assert.False(t, ok)
	assert.Nil(t, resp)
	assert.False(t, mr.Exists(key), "corrupt entry should be deleted")
}

func TestForecastCache_HealthCheck(t *testing.T) {
	c, mr := newTestCache(t)

	assert.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}
