package models

import (
	"math"
	"time"
)

// Frequency is the fixed calendar step a series is regularized onto.
// The codes match the conventional offset aliases reported to API clients.
type Frequency string

const (
	FrequencyDaily      Frequency = "D"
	FrequencyWeekly     Frequency = "W"
	FrequencyMonthStart Frequency = "MS"
	FrequencyYearStart  Frequency = "YS"
)

// Step returns the calendar point one frequency unit after t. Month and
// year steps use calendar arithmetic, not fixed durations.
func (f Frequency) Step(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthStart:
		return t.AddDate(0, 1, 0)
	case FrequencyYearStart:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// TimeSeries is a uniformly spaced, strictly ordered univariate series.
// Timestamps and Values are index-aligned and always the same length.
type TimeSeries struct {
	Name       string      `json:"name"`
	Frequency  Frequency   `json:"frequency"`
	Timestamps []time.Time `json:"timestamps"`
	Values     []float64   `json:"values"`
}

// Len returns the number of observations.
func (s *TimeSeries) Len() int {
	return len(s.Values)
}

// LastTimestamp returns the final observation time, or the zero time for
// an empty series.
func (s *TimeSeries) LastTimestamp() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[len(s.Timestamps)-1]
}

// Mean returns the arithmetic mean of the values.
func (s *TimeSeries) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Std returns the sample standard deviation of the values.
func (s *TimeSeries) Std() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(s.Values)-1))
}

// FutureTimestamps returns the next steps calendar points after the last
// observation, contiguous with history under the series frequency.
func (s *TimeSeries) FutureTimestamps(steps int) []time.Time {
	dates := make([]time.Time, steps)
	cursor := s.LastTimestamp()
	for i := 0; i < steps; i++ {
		cursor = s.Frequency.Step(cursor)
		dates[i] = cursor
	}
	return dates
}

// Copy returns a deep copy of the series.
func (s *TimeSeries) Copy() *TimeSeries {
	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return &TimeSeries{
		Name:       s.Name,
		Frequency:  s.Frequency,
		Timestamps: timestamps,
		Values:     values,
	}
}

// RawTable is parsed tabular input: ordered named columns of string cells,
// all the same length. It arrives from an external file parse and has had
// no type conversion applied.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *RawTable) ColumnCount() int {
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column in row order. Rows shorter
// than the header contribute empty cells.
func (t *RawTable) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			cells[i] = row[idx]
		}
	}
	return cells
}
