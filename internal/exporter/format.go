package exporter

import (
	"strconv"

	"gradesdash/internal/grades"
)

// formatScore formats a score for CSV output; missing scores are empty.
func formatScore(s grades.Score) string {
	return s.String()
}

// cellValue converts an exported string back to a number where possible so
// spreadsheet cells stay numeric.
func cellValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
