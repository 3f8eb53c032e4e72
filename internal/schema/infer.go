package schema

import (
	"strings"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

// timeKeywords is the fixed lexicon for spotting a time column by name.
var timeKeywords = []string{"date", "time", "month", "year", "day"}

// Infer decides which column carries the time axis and which carries the
// numeric signal. Column names are matched case-insensitively against the
// time lexicon; the value column is the first whose cells all read as
// numbers, keyword-named columns excluded. When neither scan lands, the
// first and second columns are used. Downstream conversion is the real
// validation gate, so Infer only fails on tables too narrow to choose
// from.
func Infer(table *models.RawTable) (timeColumn, valueColumn string, err error) {
	if table.ColumnCount() < MinColumns {
		return "", "", utils.NewSchemaErrorf("", "CSV file must contain at least %d columns (date, value)", MinColumns)
	}

	for _, col := range table.Columns {
		if matchesTimeKeyword(col) {
			// Later keyword matches deliberately win over earlier ones.
			timeColumn = col
		} else if valueColumn == "" && isNumericColumn(table.Column(col)) {
			valueColumn = col
		}
	}

	if timeColumn == "" {
		timeColumn = table.Columns[0]
	}
	if valueColumn == "" {
		valueColumn = table.Columns[1]
	}

	return timeColumn, valueColumn, nil
}

// matchesTimeKeyword reports whether a column name contains any lexicon
// keyword, ignoring case.
func matchesTimeKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range timeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// isNumericColumn reports whether every non-missing cell parses as a
// number, with at least one such cell present.
func isNumericColumn(cells []string) bool {
	seen := false
	for _, cell := range cells {
		if isMissingCell(cell) {
			continue
		}
		if _, ok := parseNumericCell(cell); !ok {
			return false
		}
		seen = true
	}
	return seen
}
