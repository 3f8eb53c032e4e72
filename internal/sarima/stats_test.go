package sarima

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, diff([]float64{1, 2, 4, 7}))
	assert.Nil(t, diff([]float64{5}))
	assert.Nil(t, diff(nil))
}

func TestSeasonalDiff(t *testing.T) {
	values := []float64{1, 2, 3, 4, 11, 12, 13, 14}
	assert.Equal(t, []float64{10, 10, 10, 10}, seasonalDiff(values, 4))
	assert.Nil(t, seasonalDiff(values, 8))
	assert.Nil(t, seasonalDiff(values, 0))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.5, mean([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, mean(nil))
}

func TestACF(t *testing.T) {
	t.Run("lag zero is one", func(t *testing.T) {
		r := acf([]float64{1, 3, 2, 5, 4, 6, 5, 8}, 2)
		assert.InDelta(t, 1.0, r[0], 1e-12)
	})

	t.Run("alternating series has negative lag one", func(t *testing.T) {
		r := acf([]float64{1, -1, 1, -1, 1, -1, 1, -1}, 1)
		assert.Negative(t, r[1])
	})

	t.Run("constant series has no autocorrelation", func(t *testing.T) {
		assert.Nil(t, acf([]float64{3, 3, 3, 3}, 2))
	})

	t.Run("lag is capped at series length", func(t *testing.T) {
		r := acf([]float64{1, 2, 3}, 10)
		assert.Len(t, r, 3)
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, clamp(0.5, -0.99, 0.99))
	assert.Equal(t, 0.99, clamp(1.7, -0.99, 0.99))
	assert.Equal(t, -0.99, clamp(-4, -0.99, 0.99))
}

func TestNormalQuantile(t *testing.T) {
	assert.InDelta(t, 1.96, normalQuantile(0.975), 0.01)
	assert.InDelta(t, -1.96, normalQuantile(0.025), 0.01)
	assert.InDelta(t, 0, normalQuantile(0.5), 1e-3)
	assert.InDelta(t, 2.576, normalQuantile(0.995), 0.01)
	assert.Equal(t, 0.0, normalQuantile(0))
	assert.Equal(t, 0.0, normalQuantile(1))
	assert.Equal(t, normalQuantile(0.9), -normalQuantile(0.1))
}
