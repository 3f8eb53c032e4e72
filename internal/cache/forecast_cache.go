// Package cache provides a Redis-backed cache for forecast responses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/augur-ai-go/internal/config"
	"github.com/irfndi/augur-ai-go/internal/models"
)

// ForecastCache stores rendered forecast envelopes keyed by horizon so
// repeated requests against the immutable bundled model skip the
// forecast recursion and chart rendering. The cache is best effort:
// every failure degrades to a miss.
type ForecastCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewForecastCache connects to Redis and verifies the connection with a
// short ping.
func NewForecastCache(cfg config.RedisConfig, logger *logrus.Logger) (*ForecastCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ForecastCache{client: client, ttl: cfg.TTL, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (c *ForecastCache) Close() error {
	return c.client.Close()
}

// HealthCheck pings Redis.
func (c *ForecastCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func forecastKey(steps int, withPlot bool) string {
	return fmt.Sprintf("forecast:steps:%d:plot:%t", steps, withPlot)
}

// GetForecast returns the cached envelope for (steps, withPlot), with
// ok=false on a miss or any decoding problem.
func (c *ForecastCache) GetForecast(ctx context.Context, steps int, withPlot bool) (*models.ForecastResponse, bool) {
	key := forecastKey(steps, withPlot)
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Debug("Forecast cache read failed")
		return nil, false
	}

	var resp models.ForecastResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.WithError(err).Warn("Dropping undecodable forecast cache entry")
		c.client.Del(ctx, key)
		return nil, false
	}
	return &resp, true
}

// SetForecast stores an envelope with the configured TTL.
func (c *ForecastCache) SetForecast(ctx context.Context, steps int, withPlot bool, resp *models.ForecastResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode forecast for cache")
		return
	}
	if err := c.client.Set(ctx, forecastKey(steps, withPlot), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("Forecast cache write failed")
	}
}
