package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gradesdash/internal/grades"
)

// SampleCSV has two students, two subjects and one non-numeric cell:
// Ana 1st Math (8,15,7) -> 10, Art (10,12,8) -> 10, average 10;
// Ana 2nd Math (9,abc,11) -> 10, Art missing, average 10;
// Luis 1st Math (20,18,19) -> 19, Art (15,15,16) -> 15, average 17.
const SampleCSV = `Name,Image URL,Year,Math Exam 1,Math Exam 2,Math Exam 3,Art Exam 1,Art Exam 2,Art Exam 3
Ana,https://example.com/ana.png,1st,8,15,7,10,12,8
Ana,https://example.com/ana.png,2nd,9,abc,11,,,
Luis,https://example.com/luis.png,1st,20,18,19,15,15,16
`

// WriteCSV writes content to a file in a test temp dir and returns its path.
func WriteCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grades.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// SampleDataset loads SampleCSV without backfill.
func SampleDataset(t *testing.T) *grades.Dataset {
	t.Helper()

	ds, err := grades.Load(context.Background(), &grades.FileSource{Path: WriteCSV(t, SampleCSV)}, grades.LoadOptions{})
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return ds
}
