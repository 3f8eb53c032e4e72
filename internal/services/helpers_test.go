package services

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irfndi/augur-ai-go/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// monthlySeries builds a trending series with a yearly cycle, starting
// January 1949.
func monthlySeries(n int) *models.TimeSeries {
	start := time.Date(1949, time.January, 1, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		timestamps[i] = start.AddDate(0, i, 0)
		values[i] = 120 + 1.5*float64(i) + 20*math.Sin(2*math.Pi*float64(i%12)/12)
	}
	return &models.TimeSeries{
		Name:       "passengers",
		Frequency:  models.FrequencyMonthStart,
		Timestamps: timestamps,
		Values:     values,
	}
}

// dailyCSV renders a two-column CSV with n consecutive days starting
// 2024-01-01.
func dailyCSV(n int) io.Reader {
	var b strings.Builder
	b.WriteString("date,sales\n")
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,%.1f\n", start.AddDate(0, 0, i).Format("2006-01-02"), 100.0+2.0*float64(i))
	}
	return strings.NewReader(b.String())
}

// monthlyCSV renders a two-column CSV with n months of seasonal data
// starting January 1949.
func monthlyCSV(n int) io.Reader {
	var b strings.Builder
	b.WriteString("Month,#Passengers\n")
	start := time.Date(1949, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		value := 120 + 1.5*float64(i) + 20*math.Sin(2*math.Pi*float64(i%12)/12)
		fmt.Fprintf(&b, "%s,%.2f\n", start.AddDate(0, i, 0).Format("2006-01"), value)
	}
	return strings.NewReader(b.String())
}
