package schema

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

func dailyTable(t *testing.T, days int) *models.RawTable {
	t.Helper()
	rows := make([][]string, days)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = []string{start.AddDate(0, 0, i).Format("2006-01-02"), fmt.Sprintf("%d", 100+i)}
	}
	return &models.RawTable{Columns: []string{"date", "value"}, Rows: rows}
}

func TestRegularize_DailySeries(t *testing.T) {
	series, err := Regularize(dailyTable(t, 15), "date", "value")
	require.NoError(t, err)

	assert.Equal(t, models.FrequencyDaily, series.Frequency)
	assert.Equal(t, "value", series.Name)
	require.Equal(t, 15, series.Len())
	assert.Equal(t, 100.0, series.Values[0])
	assert.Equal(t, 114.0, series.Values[14])
	for i := 1; i < series.Len(); i++ {
		assert.Equal(t, 24*time.Hour, series.Timestamps[i].Sub(series.Timestamps[i-1]))
	}
}

func TestRegularize_MonthlySeries(t *testing.T) {
	rows := make([][]string, 24)
	start := time.Date(1949, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = []string{start.AddDate(0, i, 0).Format("2006-01"), fmt.Sprintf("%d", 112+i)}
	}
	table := &models.RawTable{Columns: []string{"Month", "Passengers"}, Rows: rows}

	series, err := Regularize(table, "Month", "Passengers")
	require.NoError(t, err)

	assert.Equal(t, models.FrequencyMonthStart, series.Frequency)
	require.Equal(t, 24, series.Len())
	assert.Equal(t, time.Date(1949, 1, 1, 0, 0, 0, 0, time.UTC), series.Timestamps[0])
	assert.Equal(t, time.Date(1950, 12, 1, 0, 0, 0, 0, time.UTC), series.Timestamps[23])
}

func TestRegularize_ForwardFillsGaps(t *testing.T) {
	table := dailyTable(t, 14)
	// Remove Jan 6 and Jan 7 so the calendar reindex has to fill them.
	table.Rows = append(table.Rows[:5], table.Rows[7:]...)

	series, err := Regularize(table, "date", "value")
	require.NoError(t, err)

	assert.Equal(t, models.FrequencyDaily, series.Frequency)
	require.Equal(t, 14, series.Len())
	assert.Equal(t, 104.0, series.Values[4])
	assert.Equal(t, 104.0, series.Values[5])
	assert.Equal(t, 104.0, series.Values[6])
	assert.Equal(t, 107.0, series.Values[7])
}

func TestRegularize_SortsOutOfOrderRows(t *testing.T) {
	table := dailyTable(t, 12)
	table.Rows[0], table.Rows[11] = table.Rows[11], table.Rows[0]
	table.Rows[3], table.Rows[8] = table.Rows[8], table.Rows[3]

	series, err := Regularize(table, "date", "value")
	require.NoError(t, err)

	for i := 1; i < series.Len(); i++ {
		assert.True(t, series.Timestamps[i].After(series.Timestamps[i-1]))
	}
	assert.Equal(t, 100.0, series.Values[0])
	assert.Equal(t, 111.0, series.Values[11])
}

func TestRegularize_DuplicateTimestampsKeepLast(t *testing.T) {
	table := dailyTable(t, 12)
	table.Rows = append(table.Rows, []string{"2024-01-03", "999"})

	series, err := Regularize(table, "date", "value")
	require.NoError(t, err)

	require.Equal(t, 12, series.Len())
	assert.Equal(t, 999.0, series.Values[2])
}

func TestRegularize_DropsMissingRows(t *testing.T) {
	table := dailyTable(t, 12)
	table.Rows[4][1] = ""
	table.Rows[9][1] = "NaN"

	series, err := Regularize(table, "date", "value")
	require.NoError(t, err)

	// Dropped rows reappear as forward-filled calendar points.
	require.Equal(t, 12, series.Len())
	assert.Equal(t, 103.0, series.Values[4])
	assert.Equal(t, 108.0, series.Values[9])
}

func TestRegularize_NonNumericValueColumn(t *testing.T) {
	table := dailyTable(t, 12)
	table.Rows[6][1] = "not-a-number"

	_, err := Regularize(table, "date", "value")

	var schemaErr *utils.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "value", schemaErr.Column)
	assert.Contains(t, schemaErr.Message, "numeric")
}

func TestRegularize_UnparsableDateColumn(t *testing.T) {
	table := dailyTable(t, 12)
	table.Rows[2][0] = "sometime last week"

	_, err := Regularize(table, "date", "value")

	var schemaErr *utils.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "date", schemaErr.Column)
	assert.Contains(t, schemaErr.Message, "dates")
}

func TestRegularize_TooFewRowsAfterCleaning(t *testing.T) {
	table := dailyTable(t, 12)
	table.Rows[1][1] = ""
	table.Rows[2][1] = "null"
	table.Rows[5][0] = ""
	table.Rows[8][1] = "N/A"

	_, err := Regularize(table, "date", "value")

	var insufficientErr *utils.InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 8, insufficientErr.Rows)
}

func TestInferFrequency(t *testing.T) {
	seq := func(start time.Time, n int, step func(time.Time) time.Time) []time.Time {
		out := make([]time.Time, n)
		for i := range out {
			out[i] = start
			start = step(start)
		}
		return out
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		timestamps []time.Time
		want       models.Frequency
	}{
		{
			name:       "exact daily spacing",
			timestamps: seq(day, 10, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }),
			want:       models.FrequencyDaily,
		},
		{
			name:       "exact weekly spacing",
			timestamps: seq(day, 10, func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }),
			want:       models.FrequencyWeekly,
		},
		{
			name:       "consecutive month starts",
			timestamps: seq(day, 14, func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }),
			want:       models.FrequencyMonthStart,
		},
		{
			name:       "consecutive year starts",
			timestamps: seq(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 10, func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }),
			want:       models.FrequencyYearStart,
		},
		{
			name: "irregular gaps with daily median",
			timestamps: []time.Time{
				day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2), day.AddDate(0, 0, 5), day.AddDate(0, 0, 6),
			},
			want: models.FrequencyDaily,
		},
		{
			name: "irregular gaps with weekly median",
			timestamps: []time.Time{
				day, day.AddDate(0, 0, 6), day.AddDate(0, 0, 13), day.AddDate(0, 0, 22), day.AddDate(0, 0, 27),
			},
			want: models.FrequencyWeekly,
		},
		{
			name:       "mid-month thirty day spacing",
			timestamps: seq(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 8, func(t time.Time) time.Time { return t.AddDate(0, 0, 30) }),
			want:       models.FrequencyMonthStart,
		},
		{
			name:       "irregular yearly spacing",
			timestamps: seq(time.Date(2000, 6, 30, 0, 0, 0, 0, time.UTC), 6, func(t time.Time) time.Time { return t.AddDate(0, 0, 365) }),
			want:       models.FrequencyYearStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferFrequency(tt.timestamps))
		})
	}
}
