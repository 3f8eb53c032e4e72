// Package schema interprets arbitrary tabular input as a univariate time
// series: it parses CSV into a raw table, infers which columns carry the
// time axis and the numeric signal, and regularizes the observations onto
// a uniform calendar.
package schema

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/utils"
)

const (
	// MinColumns is the smallest column count a table may have.
	MinColumns = 2
	// MinRows is the smallest usable row count, both before and after
	// cleaning.
	MinRows = 10
)

// ParseCSV reads CSV content into a RawTable. The first record is the
// header; data rows may be ragged and are kept as-is, cell typing is
// deferred to regularization.
func ParseCSV(r io.Reader) (*models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, utils.NewSchemaErrorf("", "CSV file is empty")
	}
	if err != nil {
		return nil, utils.NewSchemaErrorf("", "failed to read CSV header: %v", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, utils.NewSchemaErrorf("", "failed to read CSV row: %v", err)
		}
		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(strings.Trim(cell, "\""))
		}
		rows = append(rows, row)
	}

	return &models.RawTable{Columns: columns, Rows: rows}, nil
}

// ValidateTable enforces the structural floor on parsed input: at least
// two columns and at least ten data rows.
func ValidateTable(table *models.RawTable) error {
	if table.ColumnCount() < MinColumns {
		return utils.NewSchemaErrorf("", "CSV file must contain at least %d columns (date, value)", MinColumns)
	}
	if table.RowCount() < MinRows {
		return utils.NewInsufficientDataError(table.RowCount(), MinRows)
	}
	return nil
}
