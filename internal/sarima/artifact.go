package sarima

import (
	"errors"
	"fmt"
)

// Artifact is the JSON-persistable state of a fitted model. Residual
// state is deliberately not stored; FromArtifact rebuilds it by running
// the stored coefficients back over the training values.
type Artifact struct {
	Order     Order     `json:"order"`
	AR        []float64 `json:"ar"`
	MA        []float64 `json:"ma"`
	SAR       []float64 `json:"sar"`
	SMA       []float64 `json:"sma"`
	Intercept float64   `json:"intercept"`
	Variance  float64   `json:"variance"`
	LogLik    float64   `json:"log_lik"`
	AIC       float64   `json:"aic"`
	AICc      float64   `json:"aicc"`
	BIC       float64   `json:"bic"`
	Training  []float64 `json:"training"`
}

// Artifact captures the fitted model for persistence.
func (m *Model) Artifact() (*Artifact, error) {
	if !m.fitted {
		return nil, errors.New("model is not fitted")
	}
	return &Artifact{
		Order:     m.Order,
		AR:        append([]float64(nil), m.AR...),
		MA:        append([]float64(nil), m.MA...),
		SAR:       append([]float64(nil), m.SAR...),
		SMA:       append([]float64(nil), m.SMA...),
		Intercept: m.Intercept,
		Variance:  m.Variance,
		LogLik:    m.LogLik,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		Training:  append([]float64(nil), m.original...),
	}, nil
}

// FromArtifact reconstructs a fitted model without re-estimating
// anything. Differencing is re-applied to the stored training values and
// residuals are rebuilt with the stored coefficients, so forecasts from
// the restored model match the one that was saved.
func FromArtifact(a *Artifact) (*Model, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	m := New(a.Order)
	copy(m.AR, a.AR)
	copy(m.MA, a.MA)
	copy(m.SAR, a.SAR)
	copy(m.SMA, a.SMA)
	m.original = append([]float64(nil), a.Training...)

	diffed := m.original
	for i := 0; i < a.Order.D; i++ {
		diffed = diff(diffed)
	}
	for i := 0; i < a.Order.SD; i++ {
		diffed = seasonalDiff(diffed, a.Order.M)
	}
	if len(diffed) == 0 {
		return nil, errors.New("artifact training series is too short for its order")
	}
	m.diffed = diffed

	m.Intercept = a.Intercept
	m.refilter()

	// Fit-time scores are authoritative over anything recomputed here.
	m.Variance = a.Variance
	m.LogLik = a.LogLik
	m.AIC = a.AIC
	m.AICc = a.AICc
	m.BIC = a.BIC

	m.fitted = true
	return m, nil
}

func (a *Artifact) validate() error {
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"ar", len(a.AR), a.Order.P},
		{"ma", len(a.MA), a.Order.Q},
		{"sar", len(a.SAR), a.Order.SP},
		{"sma", len(a.SMA), a.Order.SQ},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("artifact %s coefficients: have %d, order %s wants %d", c.name, c.got, a.Order, c.want)
		}
	}
	if len(a.Training) == 0 {
		return errors.New("artifact has no training values")
	}
	return nil
}
