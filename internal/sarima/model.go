// Package sarima fits seasonal ARIMA models by conditional sum of
// squares and produces point forecasts with prediction intervals.
package sarima

import (
	"fmt"
	"math"

	"github.com/irfndi/augur-ai-go/internal/utils"
)

// Order is the full model order (p, d, q) x (SP, SD, SQ, M).
type Order struct {
	P  int `json:"p"`
	D  int `json:"d"`
	Q  int `json:"q"`
	SP int `json:"sp"`
	SD int `json:"sd"`
	SQ int `json:"sq"`
	M  int `json:"m"`
}

// MinObservations is the shortest series the order can be fitted on:
// differencing must leave more points than free parameters.
func (o Order) MinObservations() int {
	return o.D + o.SD*o.M + o.P + o.Q + o.SP + o.SQ + 2
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d,%d)", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// Model holds the coefficients and fit state of a seasonal ARIMA model.
// The zero value is unusable; construct with New and call Fit.
type Model struct {
	Order     Order
	AR        []float64
	MA        []float64
	SAR       []float64
	SMA       []float64
	Intercept float64
	Variance  float64
	LogLik    float64
	AIC       float64
	AICc      float64
	BIC       float64

	fitted     bool
	original   []float64
	diffed     []float64
	residuals  []float64
	fittedVals []float64
}

// New creates an unfitted model with the given order.
func New(order Order) *Model {
	return &Model{
		Order: order,
		AR:    make([]float64, order.P),
		MA:    make([]float64, order.Q),
		SAR:   make([]float64, order.SP),
		SMA:   make([]float64, order.SQ),
	}
}

// Fitted reports whether Fit has completed successfully.
func (m *Model) Fitted() bool {
	return m.fitted
}

// NObs returns the number of observations the model was fitted on.
func (m *Model) NObs() int {
	return len(m.original)
}

// Fit estimates the coefficients on the given values by conditional sum
// of squares. The series must already be on a uniform calendar. A series
// shorter than Order.MinObservations fails with a FitError.
func (m *Model) Fit(values []float64) error {
	o := m.Order
	if minLen := o.MinObservations(); len(values) < minLen {
		return utils.NewFitError(fmt.Sprintf(
			"series too short for SARIMA%s: have %d observations, need at least %d",
			o, len(values), minLen), nil)
	}

	m.original = append([]float64(nil), values...)

	diffed := m.original
	for i := 0; i < o.D; i++ {
		diffed = diff(diffed)
		if len(diffed) == 0 {
			return utils.NewFitError("differencing consumed the whole series", nil)
		}
	}
	for i := 0; i < o.SD; i++ {
		diffed = seasonalDiff(diffed, o.M)
		if len(diffed) == 0 {
			return utils.NewFitError("seasonal differencing consumed the whole series", nil)
		}
	}
	m.diffed = diffed

	m.initCoefficients()
	m.optimize()
	m.refilter()
	m.score()

	m.fitted = true
	return nil
}

// initCoefficients seeds the optimizer. The intercept starts at the mean
// of the differenced series, AR terms at half their autocorrelation, and
// MA terms at a small positive constant.
func (m *Model) initCoefficients() {
	o := m.Order
	m.Intercept = mean(m.diffed)

	if o.P > 0 {
		if r := acf(m.diffed, o.P); r != nil {
			for i := 0; i < o.P && i+1 < len(r); i++ {
				m.AR[i] = r[i+1] * 0.5
			}
		}
	}
	if o.SP > 0 {
		if r := acf(m.diffed, o.SP*o.M); r != nil {
			for i := 0; i < o.SP; i++ {
				if lag := (i + 1) * o.M; lag < len(r) {
					m.SAR[i] = r[lag] * 0.5
				}
			}
		}
	}
	for i := range m.MA {
		m.MA[i] = 0.1
	}
	for i := range m.SMA {
		m.SMA[i] = 0.1
	}
}

// step computes the one-step linear prediction at index t. Residual
// indexes at or beyond residLimit contribute nothing, which is how
// forecasting treats future shocks.
func (m *Model) step(y, resid []float64, t, residLimit int) float64 {
	o := m.Order
	pred := m.Intercept

	for i := 0; i < o.P && t-i-1 >= 0; i++ {
		pred += m.AR[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < o.SP; i++ {
		if lag := (i + 1) * o.M; t-lag >= 0 {
			pred += m.SAR[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < o.Q && t-i-1 >= 0; i++ {
		if t-i-1 < residLimit {
			pred += m.MA[i] * resid[t-i-1]
		}
	}
	for i := 0; i < o.SQ; i++ {
		if lag := (i + 1) * o.M; t-lag >= 0 && t-lag < residLimit {
			pred += m.SMA[i] * resid[t-lag]
		}
	}
	return pred
}

// optimize runs gradient descent with momentum on the conditional sum of
// squares, keeping the best coefficient set seen and stopping early once
// the objective stalls.
func (m *Model) optimize() {
	o := m.Order
	y := m.diffed
	n := len(y)

	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	rate := 0.005

	arVel := make([]float64, o.P)
	maVel := make([]float64, o.Q)
	sarVel := make([]float64, o.SP)
	smaVel := make([]float64, o.SQ)

	start := m.burnIn()

	bestSSE := math.Inf(1)
	prevSSE := math.Inf(1)
	bestAR := make([]float64, o.P)
	bestMA := make([]float64, o.Q)
	bestSAR := make([]float64, o.SP)
	bestSMA := make([]float64, o.SQ)
	stalled := 0

	for iter := 0; iter < maxIter; iter++ {
		resid := make([]float64, n)
		sse := 0.0
		for t := start; t < n; t++ {
			resid[t] = y[t] - m.step(y, resid, t, n)
			sse += resid[t] * resid[t]
		}

		if sse < bestSSE {
			bestSSE = sse
			copy(bestAR, m.AR)
			copy(bestMA, m.MA)
			copy(bestSAR, m.SAR)
			copy(bestSMA, m.SMA)
			stalled = 0
		} else {
			stalled++
		}
		if stalled > 20 {
			break
		}
		if math.Abs(sse-prevSSE) < tolerance {
			break
		}
		prevSSE = sse

		arGrad := make([]float64, o.P)
		maGrad := make([]float64, o.Q)
		sarGrad := make([]float64, o.SP)
		smaGrad := make([]float64, o.SQ)

		for t := start; t < n; t++ {
			for i := 0; i < o.P && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * resid[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < o.SP; i++ {
				if lag := (i + 1) * o.M; t-lag >= 0 {
					sarGrad[i] -= 2 * resid[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < o.Q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * resid[t] * resid[t-i-1]
			}
			for i := 0; i < o.SQ; i++ {
				if lag := (i + 1) * o.M; t-lag >= 0 {
					smaGrad[i] -= 2 * resid[t] * resid[t-lag]
				}
			}
		}

		apply := func(coeffs, grad, vel []float64) {
			for i := range coeffs {
				vel[i] = momentum*vel[i] + rate*grad[i]/float64(n)
				coeffs[i] -= vel[i]
				coeffs[i] = clamp(coeffs[i], -0.99, 0.99)
			}
		}
		apply(m.AR, arGrad, arVel)
		apply(m.SAR, sarGrad, sarVel)
		apply(m.MA, maGrad, maVel)
		apply(m.SMA, smaGrad, smaVel)

		rate *= decay
	}

	copy(m.AR, bestAR)
	copy(m.MA, bestMA)
	copy(m.SAR, bestSAR)
	copy(m.SMA, bestSMA)
}

// refilter recomputes residuals and fitted values over the whole
// differenced series with the current coefficients, then the residual
// variance over the burn-in-adjusted window.
func (m *Model) refilter() {
	y := m.diffed
	n := len(y)

	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.fittedVals[t] = m.step(y, m.residuals, t, n)
		m.residuals[t] = y[t] - m.fittedVals[t]
	}

	start := m.burnIn()
	sse := 0.0
	count := 0
	for t := start; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}

	numParams := m.numParams()
	switch {
	case count > numParams:
		m.Variance = sse / float64(count-numParams)
	case count > 0:
		m.Variance = sse / float64(count)
	}
}

// burnIn returns the first index with full lag history, or 0 when the
// differenced series is too short to afford skipping any of it.
func (m *Model) burnIn() int {
	o := m.Order
	start := max(max(o.P, o.Q), max(o.SP*o.M, o.SQ*o.M))
	if start >= len(m.diffed)-10 {
		return 0
	}
	return start
}

func (m *Model) numParams() int {
	o := m.Order
	return o.P + o.Q + o.SP + o.SQ + 1
}

// score computes the Gaussian log-likelihood and information criteria
// from the residuals.
func (m *Model) score() {
	n := float64(len(m.residuals))
	k := float64(m.numParams())

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -n/2*math.Log(2*math.Pi) - n/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	m.AIC = -2*m.LogLik + 2*k
	if n-k-1 > 0 {
		m.AICc = m.AIC + 2*k*(k+1)/(n-k-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + k*math.Log(n)
}
