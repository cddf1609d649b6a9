// Package exporter turns dataset views into tabular exports.
//
// Table is the common shape: a name, a header row and string records. The
// builders in tables.go produce the summary table, the full exam table and
// the per-subject exam table from a dataset snapshot. CSVWriter writes a
// Table as CSV (optionally with a UTF-8 BOM so spreadsheet programs detect
// the encoding) and WriteWorkbook writes one or more Tables as sheets of an
// XLSX workbook.
//
// Example usage:
//
//	ds := store.Current()
//	summary := exporter.SummaryTable(ds, ds.Filter("", ""), nil)
//	err := exporter.NewCSVWriter().WriteFile("out/summary.csv", summary, exporter.WriteOptions{BOMPrefix: true})
package exporter
