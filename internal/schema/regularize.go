package schema

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

// timestampLayouts are tried in order when reading a time cell.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006",
}

// missingMarkers are cell contents treated as absent values rather than
// parse failures, mirroring common CSV conventions.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

type observation struct {
	timestamp time.Time
	value     float64
}

// Regularize converts the chosen columns into a uniformly spaced series:
// it parses every cell, drops rows with missing entries, sorts by time,
// infers the sampling frequency, and reindexes onto the implied calendar
// with forward fill. Unparsable cells fail the whole column with a
// SchemaError naming it; fewer than MinRows surviving rows is an
// InsufficientDataError.
func Regularize(table *models.RawTable, timeColumn, valueColumn string) (*models.TimeSeries, error) {
	timeCells := table.Column(timeColumn)
	if timeCells == nil {
		return nil, utils.NewSchemaErrorf(timeColumn, "column '%s' not found in CSV", timeColumn)
	}
	valueCells := table.Column(valueColumn)
	if valueCells == nil {
		return nil, utils.NewSchemaErrorf(valueColumn, "column '%s' not found in CSV", valueColumn)
	}

	obs := make([]observation, 0, len(timeCells))
	for i := range timeCells {
		timeMissing := isMissingCell(timeCells[i])
		valueMissing := isMissingCell(valueCells[i])

		var ts time.Time
		if !timeMissing {
			parsed, ok := parseTimestampCell(timeCells[i])
			if !ok {
				return nil, utils.NewSchemaErrorf(timeColumn, "could not convert column '%s' to dates", timeColumn)
			}
			ts = parsed
		}

		var value float64
		if !valueMissing {
			parsed, ok := parseNumericCell(valueCells[i])
			if !ok {
				return nil, utils.NewSchemaErrorf(valueColumn, "could not convert column '%s' to numeric values", valueColumn)
			}
			value = parsed
		}

		if timeMissing || valueMissing {
			continue
		}
		obs = append(obs, observation{timestamp: ts, value: value})
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].timestamp.Before(obs[j].timestamp)
	})

	if len(obs) < MinRows {
		return nil, utils.NewInsufficientDataError(len(obs), MinRows)
	}

	freq := InferFrequency(timestampsOf(obs))
	grid, values := reindex(obs, freq)

	return &models.TimeSeries{
		Name:       valueColumn,
		Frequency:  freq,
		Timestamps: grid,
		Values:     values,
	}, nil
}

// InferFrequency picks the calendar step for a sorted timestamp sequence.
// The rules are checked in priority order: an exactly regular spacing wins
// outright, otherwise the median gap classifies the series. Inference
// always succeeds.
func InferFrequency(timestamps []time.Time) models.Frequency {
	rules := []struct {
		freq    models.Frequency
		matches func([]time.Time) bool
	}{
		{models.FrequencyDaily, allGapsEqual(24 * time.Hour)},
		{models.FrequencyWeekly, allGapsEqual(7 * 24 * time.Hour)},
		{models.FrequencyMonthStart, allMonthStarts},
		{models.FrequencyYearStart, allYearStarts},
	}
	for _, rule := range rules {
		if len(timestamps) >= 2 && rule.matches(timestamps) {
			return rule.freq
		}
	}

	gapDays := medianGapDays(timestamps)
	switch {
	case gapDays <= 1:
		return models.FrequencyDaily
	case gapDays <= 7:
		return models.FrequencyWeekly
	case gapDays <= 31:
		return models.FrequencyMonthStart
	default:
		return models.FrequencyYearStart
	}
}

// allGapsEqual builds a rule that holds when every consecutive gap is
// exactly the given duration.
func allGapsEqual(step time.Duration) func([]time.Time) bool {
	return func(timestamps []time.Time) bool {
		for i := 1; i < len(timestamps); i++ {
			if timestamps[i].Sub(timestamps[i-1]) != step {
				return false
			}
		}
		return true
	}
}

// allMonthStarts holds when every timestamp is the first of a month and
// consecutive timestamps are exactly one calendar month apart.
func allMonthStarts(timestamps []time.Time) bool {
	for i, ts := range timestamps {
		if ts.Day() != 1 {
			return false
		}
		if i > 0 && !timestamps[i-1].AddDate(0, 1, 0).Equal(ts) {
			return false
		}
	}
	return true
}

// allYearStarts holds when every timestamp is January 1st and consecutive
// timestamps are exactly one calendar year apart.
func allYearStarts(timestamps []time.Time) bool {
	for i, ts := range timestamps {
		if ts.Month() != time.January || ts.Day() != 1 {
			return false
		}
		if i > 0 && !timestamps[i-1].AddDate(1, 0, 0).Equal(ts) {
			return false
		}
	}
	return true
}

// medianGapDays returns the median consecutive gap in days.
func medianGapDays(timestamps []time.Time) float64 {
	if len(timestamps) < 2 {
		return 1
	}
	gaps := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		gaps = append(gaps, timestamps[i].Sub(timestamps[i-1]).Hours()/24)
	}
	sort.Float64s(gaps)
	mid := len(gaps) / 2
	if len(gaps)%2 == 0 {
		return (gaps[mid-1] + gaps[mid]) / 2
	}
	return gaps[mid]
}

// reindex lays the observations onto the exact calendar implied by freq
// between the first and last timestamp, forward-filling gaps with the
// last known value. No interpolation, no backward fill; duplicate
// timestamps collapse to the last observation.
func reindex(obs []observation, freq models.Frequency) ([]time.Time, []float64) {
	first := obs[0].timestamp
	last := obs[len(obs)-1].timestamp
	grid := buildCalendar(first, last, freq)

	values := make([]float64, len(grid))
	cursor := 0
	for i, point := range grid {
		for cursor+1 < len(obs) && !obs[cursor+1].timestamp.After(point) {
			cursor++
		}
		values[i] = obs[cursor].value
	}
	return grid, values
}

// buildCalendar generates the calendar points between first and last
// inclusive. Month and year grids align to the first month/year start at
// or after the first observation; day and week grids anchor on it.
func buildCalendar(first, last time.Time, freq models.Frequency) []time.Time {
	start := first
	switch freq {
	case models.FrequencyMonthStart:
		start = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
		if start.Before(first) {
			start = start.AddDate(0, 1, 0)
		}
	case models.FrequencyYearStart:
		start = time.Date(first.Year(), time.January, 1, 0, 0, 0, 0, first.Location())
		if start.Before(first) {
			start = start.AddDate(1, 0, 0)
		}
	}

	var grid []time.Time
	for point := start; !point.After(last); point = freq.Step(point) {
		grid = append(grid, point)
	}
	return grid
}

func timestampsOf(obs []observation) []time.Time {
	timestamps := make([]time.Time, len(obs))
	for i, o := range obs {
		timestamps[i] = o.timestamp
	}
	return timestamps
}

// isMissingCell reports whether a cell should be treated as absent.
func isMissingCell(cell string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(cell))]
}

// parseTimestampCell reads a cell as a date or datetime.
func parseTimestampCell(cell string) (time.Time, bool) {
	trimmed := strings.TrimSpace(cell)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseNumericCell reads a cell as a number. Decimal parsing keeps exact
// string precision before conversion and accepts scientific notation.
func parseNumericCell(cell string) (float64, bool) {
	trimmed := strings.TrimSpace(cell)
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, false
	}
	return dec.InexactFloat64(), true
}
