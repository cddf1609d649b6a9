package grades

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) [][]string {
	t.Helper()
	src := &FileSource{Path: filepath.Join("testdata", "grades.csv")}
	rows, err := src.Rows(context.Background())
	require.NoError(t, err)
	return rows
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(readFixture(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Math", "Art"}, table.Subjects)
	assert.Equal(t, 3, table.ExamCount)
	require.Len(t, table.Records, 3)
	assert.NotEmpty(t, table.Fingerprint)

	ana := table.Records[0]
	assert.Equal(t, "Ana", ana.Name)
	assert.Equal(t, "https://example.com/ana.png", ana.ImageURL)
	assert.Equal(t, "1st", ana.Year)
	assert.Equal(t, []Score{Of(8), Of(15), Of(7)}, ana.SubjectExams(0))

	// non-numeric cell coerced to missing
	assert.False(t, table.Records[1].Exams[0][1].Valid)
	assert.Equal(t, 1, table.SubjectIndex("Art"))
	assert.Equal(t, -1, table.SubjectIndex("History"))
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		err  error
	}{
		{"empty", nil, ErrEmptyTable},
		{"blank rows only", [][]string{{"", " "}}, ErrEmptyTable},
		{"no name", [][]string{{"Year", "Math Exam 1"}}, ErrMissingColumn},
		{"no year", [][]string{{"Name", "Math Exam 1"}}, ErrMissingColumn},
		{"no subjects", [][]string{{"Name", "Year", "Notes"}}, ErrNoSubjects},
		{"exam zero", [][]string{{"Name", "Year", "Math Exam 0"}}, ErrInvalidSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(tt.rows)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseTableLayoutTolerance(t *testing.T) {
	rows := [][]string{
		{},
		{"\ufeffname", "year", "Math  Exam 2", "Math Exam 1", "Extra"},
		{"Ana", "K", "12", "10", "ignored"},
		{"", "", "", ""},
		{"Luis", "1st"},
	}
	table, err := ParseTable(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"Math"}, table.Subjects)
	assert.Equal(t, 2, table.ExamCount)
	require.Len(t, table.Records, 2)
	assert.Equal(t, []Score{Of(10), Of(12)}, table.Records[0].Exams[0])
	assert.Equal(t, []Score{Missing(), Missing()}, table.Records[1].Exams[0])
	assert.Empty(t, table.Records[0].ImageURL)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a, err := ParseTable([][]string{{"Name", "Year", "Math Exam 1"}, {"Ana", "K", "10"}})
	require.NoError(t, err)
	b, err := ParseTable([][]string{{"Name", "Year", "Math Exam 1"}, {"Ana", "K", "11"}})
	require.NoError(t, err)
	c, err := ParseTable([][]string{{"Name", "Year", "Math Exam 1"}, {"Ana", "K", "10"}})
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Fingerprint, c.Fingerprint)
}

func TestParseScore(t *testing.T) {
	assert.Equal(t, Of(12.5), ParseScore(" 12.5 "))
	assert.Equal(t, Missing(), ParseScore(""))
	assert.Equal(t, Missing(), ParseScore("n/a"))
	assert.Equal(t, Missing(), ParseScore("NaN"))
	assert.Equal(t, Missing(), ParseScore("+Inf"))
}

func TestScoreJSON(t *testing.T) {
	data, err := json.Marshal([]Score{Of(10), Missing()})
	require.NoError(t, err)
	assert.JSONEq(t, `[10, null]`, string(data))

	var back []Score
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Score{Of(10), Missing()}, back)

	assert.Equal(t, "10", Of(10).String())
	assert.Equal(t, "", Missing().String())
}

func TestFileSourceMissingFile(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")}
	_, err := src.Rows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
