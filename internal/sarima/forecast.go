package sarima

import (
	"errors"
	"math"
)

// Forecast produces steps point forecasts on the original scale together
// with a two-sided prediction interval at the given confidence level.
// Values outside (0, 1) fall back to 0.95. Forecasting mutates nothing,
// so repeated calls with the same arguments return identical slices.
func (m *Model) Forecast(steps int, confidence float64) (point, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, errors.New("model is not fitted")
	}
	if steps < 1 {
		return nil, nil, nil, errors.New("steps must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	n := len(m.diffed)

	// Recursive multi-step prediction on the differenced scale. Future
	// shocks are zero, so MA terms only see observed residuals.
	extY := make([]float64, n+steps)
	copy(extY, m.diffed)
	extResid := make([]float64, n+steps)
	copy(extResid, m.residuals)

	for h := 0; h < steps; h++ {
		extY[n+h] = m.step(extY, extResid, n+h, n)
	}

	point = m.integrate(extY[n:])

	z := normalQuantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		se := math.Sqrt(m.Variance) * m.seGrowth(h)
		lower[h] = point[h] - z*se
		upper[h] = point[h] + z*se
	}

	return point, lower, upper, nil
}

// seGrowth scales the residual standard error with the horizon. Each
// level of integration widens the interval with sqrt of the number of
// accumulated steps, seasonal integration with sqrt of elapsed cycles.
func (m *Model) seGrowth(h int) float64 {
	growth := 1.0
	if m.Order.D > 0 {
		growth *= math.Sqrt(float64(h + 1))
	}
	if m.Order.SD > 0 && m.Order.M > 0 {
		growth *= math.Sqrt(float64(h/m.Order.M + 1))
	}
	return growth
}

// integrate undoes the differencing applied in Fit, returning forecasts
// on the original scale. Fit differences non-seasonally first and then
// seasonally, so integration reverses in the opposite order.
func (m *Model) integrate(forecasts []float64) []float64 {
	o := m.Order
	original := m.original

	result := append([]float64(nil), forecasts...)

	// The seasonal integration seeds come from the series after
	// non-seasonal differencing only.
	nonSeasonal := original
	for i := 0; i < o.D; i++ {
		if len(nonSeasonal) <= 1 {
			break
		}
		nonSeasonal = diff(nonSeasonal)
	}

	if o.SD > 0 && o.M > 0 {
		nDiff := len(nonSeasonal)
		for i := 0; i < o.SD; i++ {
			for j := range result {
				if j < o.M {
					if idx := nDiff - o.M + j; idx >= 0 && idx < nDiff {
						result[j] += nonSeasonal[idx]
					}
				} else {
					result[j] += result[j-o.M]
				}
			}
		}
	}

	// Undoing a first difference is a running sum anchored on the last
	// observed value.
	for i := 0; i < o.D; i++ {
		last := original[len(original)-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}
