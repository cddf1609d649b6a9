package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"gradesdash/internal/shared/testutil"
)

// run executes gradesctl against the sample CSV and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GRADES_DATA_SHEETS_SPREADSHEET_ID", "")

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))

	base := []string{"--no-color", "--source", testutil.WriteCSV(t, testutil.SampleCSV)}
	cmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "defaults to the first student and year",
			args:     []string{"summary"},
			contains: []string{"Student", "Ana", "1st", "Average: 10"},
		},
		{
			name:     "explicit filter",
			args:     []string{"summary", "--student", "Luis", "--year", "1st"},
			contains: []string{"Luis", "19", "15", "Average: 17"},
		},
		{
			name:     "spanish",
			args:     []string{"summary", "--lang", "es", "--student", "Ana", "--year", "2nd"},
			contains: []string{"Estudiante", "Matemáticas", "2do", "Promedio: 10"},
		},
		{
			name:     "missing scores are dashes",
			args:     []string{"summary", "--student", "Ana", "--year", "2nd"},
			contains: []string{" - "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestSummaryCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown student", []string{"summary", "--student", "Bob"}, "student not found"},
		{"unsupported language", []string{"summary", "--lang", "fr"}, "unsupported language"},
		{"unknown subject", []string{"exams", "--subject", "Music"}, "subject not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExamsCommand(t *testing.T) {
	out, err := run(t, "", "exams", "--student", "Ana", "--year", "1st", "--subject", "Art")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "8")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv file", func(t *testing.T) {
		path := filepath.Join(dir, "out.csv")
		_, err := run(t, "", "export", "--output", path, "--raw")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "Name", records[0][0])
		assert.Len(t, records, 4)
	})

	t.Run("xlsx file", func(t *testing.T) {
		path := filepath.Join(dir, "out.xlsx")
		_, err := run(t, "", "export", "--output", path, "--lang", "es")
		require.NoError(t, err)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Summary", "Exams"}, f.GetSheetList())
	})

	t.Run("stdout", func(t *testing.T) {
		out, err := run(t, "", "export", "--output", "-", "--format", "csv", "--student", "Luis")
		require.NoError(t, err)
		assert.Contains(t, out, "Luis")
		assert.NotContains(t, out, "Ana")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "", "export", "--output", filepath.Join(dir, "out.pdf"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported export format")
		assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
	})
}

func TestHashPasswordCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"argument", "", []string{"hash-password", "--cost", "4", "hunter2"}},
		{"stdin", "hunter2\n", []string{"hash-password", "--cost", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			hash := strings.TrimSpace(out)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
		})
	}

	_, err := run(t, "", "hash-password")
	assert.Error(t, err)
}
