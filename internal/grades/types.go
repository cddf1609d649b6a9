package grades

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Column names recognised in the header row.
const (
	ColumnName     = "Name"
	ColumnImageURL = "Image URL"
	ColumnYear     = "Year"
	ColumnAverage  = "Grade Average"
)

// Score is a numeric grade that may be missing.
type Score struct {
	Value float64
	Valid bool
}

// Missing returns the missing-value marker.
func Missing() Score {
	return Score{}
}

// Of wraps a known value.
func Of(v float64) Score {
	return Score{Value: v, Valid: true}
}

// ParseScore coerces a raw cell into a Score. Blank, non-numeric, NaN and
// infinite cells become missing.
func ParseScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Missing()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Of(v)
}

// String formats the score without trailing zeros; missing scores format as "".
func (s Score) String() string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// MarshalJSON encodes missing scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Of(v)
	return nil
}

// Record is one row of the source table: a student in a given year with
// every exam score per subject. Exams is indexed [subject][exam] in the
// order of Table.Subjects.
type Record struct {
	Name     string
	ImageURL string
	Year     string
	Exams    [][]Score
}

// SubjectExams returns the exam scores for the subject at index i.
func (r Record) SubjectExams(i int) []Score {
	if i < 0 || i >= len(r.Exams) {
		return nil
	}
	return r.Exams[i]
}

// Table is the parsed source: subject list, exam count and rows.
type Table struct {
	Subjects    []string
	ExamCount   int
	Records     []Record
	Fingerprint string
}

// SubjectIndex returns the position of subject in Subjects or -1.
func (t *Table) SubjectIndex(subject string) int {
	for i, s := range t.Subjects {
		if s == subject {
			return i
		}
	}
	return -1
}

// ExamColumn returns the source column name for an exam, e.g. "Art Exam 2".
func ExamColumn(subject string, exam int) string {
	return subject + " Exam " + strconv.Itoa(exam)
}

// Summary is the derived record: one final per subject plus the average.
// Finals is aligned with Table.Subjects.
type Summary struct {
	Name     string
	ImageURL string
	Year     string
	Finals   []Score
	Average  Score
}
