package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gradesdash/internal/grades"
	"gradesdash/internal/i18n"
)

func loadFixture(t *testing.T) *grades.Dataset {
	t.Helper()
	src := &grades.FileSource{Path: filepath.Join("..", "grades", "testdata", "grades.csv")}
	ds, err := grades.Load(context.Background(), src, grades.LoadOptions{})
	require.NoError(t, err)
	return ds
}

func TestSummaryTable(t *testing.T) {
	ds := loadFixture(t)

	table := SummaryTable(ds, ds.Filter("", ""), nil)
	assert.Equal(t, SummaryName, table.Name)
	assert.Equal(t, []string{"Name", "Image URL", "Year", "Math", "Art", "Grade Average"}, table.Headers)
	require.Len(t, table.Records, 3)
	assert.Equal(t, []string{"Ana", "https://example.com/ana.png", "1st", "10", "10", "10"}, table.Records[0])
	// "abc" and blank cells are missing
	assert.Equal(t, []string{"Ana", "https://example.com/ana.png", "2nd", "10", "", "10"}, table.Records[1])

	es := SummaryTable(ds, ds.Filter("Luis", ""), i18n.Lookup("es"))
	assert.Equal(t, []string{"Estudiante", "Image URL", "Grado", "Matemáticas", "Arte", "Promedio"}, es.Headers)
	require.Len(t, es.Records, 1)
	assert.Equal(t, "1ro", es.Records[0][2])
}

func TestExamTables(t *testing.T) {
	ds := loadFixture(t)

	exams := ExamsTable(ds, ds.Filter("Ana", "1st"), nil)
	assert.Equal(t, []string{"Name", "Year",
		"Math Exam 1", "Math Exam 2", "Math Exam 3",
		"Art Exam 1", "Art Exam 2", "Art Exam 3"}, exams.Headers)
	assert.Equal(t, [][]string{{"Ana", "1st", "8", "15", "7", "10", "12", "8"}}, exams.Records)

	subject, ok := SubjectExamsTable(ds, ds.Filter("Ana", "2nd"), "Math", i18n.Lookup("es"))
	require.True(t, ok)
	assert.Equal(t, []string{"Estudiante", "Grado", "Lapso 1", "Lapso 2", "Lapso 3"}, subject.Headers)
	assert.Equal(t, [][]string{{"Ana", "2do", "9", "", "11"}}, subject.Records)

	_, ok = SubjectExamsTable(ds, nil, "Chemistry", nil)
	assert.False(t, ok)
}

func TestCSVWriter(t *testing.T) {
	table := Table{
		Name:    "t",
		Headers: []string{"Name", "Math"},
		Records: [][]string{{"Ana", "10"}, {"José, Jr.", ""}},
	}

	tests := []struct {
		name    string
		options WriteOptions
		bom     bool
		rows    int
	}{
		{"with BOM", WriteOptions{BOMPrefix: true}, true, 3},
		{"plain", WriteOptions{}, false, 3},
		{"no header", WriteOptions{NoHeader: true}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter().Write(&buf, table, tt.options))
			data := buf.Bytes()
			assert.Equal(t, tt.bom, bytes.HasPrefix(data, utf8BOM))

			rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
			require.NoError(t, err)
			assert.Len(t, rows, tt.rows)
			assert.Equal(t, []string{"José, Jr.", ""}, rows[len(rows)-1])
		})
	}
}

func TestCSVWriterWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary.csv")
	ds := loadFixture(t)

	err := NewCSVWriter().WriteFile(path, SummaryTable(ds, ds.Filter("", ""), nil), WriteOptions{BOMPrefix: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Contains(t, string(data), "Name,Image URL,Year,Math,Art,Grade Average")
}

func TestWriteWorkbook(t *testing.T) {
	ds := loadFixture(t)
	idx := ds.Filter("", "")

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, SummaryTable(ds, idx, nil), ExamsTable(ds, idx, nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummaryName, ExamsName}, f.GetSheetList())

	header, err := f.GetCellValue(SummaryName, "D1")
	require.NoError(t, err)
	assert.Equal(t, "Math", header)

	v, err := f.GetCellValue(SummaryName, "D4")
	require.NoError(t, err)
	assert.Equal(t, "19", v)

	missing, err := f.GetCellValue(SummaryName, "E3")
	require.NoError(t, err)
	assert.Empty(t, missing)

	rows, err := f.GetRows(ExamsName)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestWriteWorkbookNoTables(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteWorkbook(&buf), ErrNoTables)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet3", sheetName("", 2))
	assert.Equal(t, "Summary", sheetName("Summary", 0))
	assert.Len(t, []rune(sheetName("Participacion Exams For Every Student", 0)), 31)
}
