package steps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// getCellValueFromTable gets a cell value from a table row by column name
// It uses the first row (table.Rows[0]) as the header to find the column index
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	headerRow := table.Rows[0]
	for i, headerCell := range headerRow.Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return strings.TrimSpace(row.Cells[i].Value)
			}
			return ""
		}
	}

	return ""
}

// getFloatFromTable reads a numeric cell, treating a blank cell as zero
func getFloatFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) (float64, error) {
	raw := getCellValueFromTable(table, row, columnName)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", columnName, err)
	}
	return v, nil
}

// getIntFromTable reads an integer cell, treating a blank cell as zero
func getIntFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) (int, error) {
	raw := getCellValueFromTable(table, row, columnName)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", columnName, err)
	}
	return v, nil
}
