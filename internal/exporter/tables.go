package exporter

import (
	"gradesdash/internal/grades"
	"gradesdash/internal/i18n"
)

// Table is a named header plus records.
type Table struct {
	Name    string
	Headers []string
	Records [][]string
}

// Table names, also used as sheet names.
const (
	SummaryName = "Summary"
	ExamsName   = "Exams"
)

// SummaryTable lists the summaries at idx: name, image, year, one final per
// subject and the grade average. A nil bundle keeps the source column names;
// otherwise headers, subjects and year labels are translated.
func SummaryTable(ds *grades.Dataset, idx []int, b *i18n.Bundle) Table {
	t := Table{Name: SummaryName}
	t.Headers = append(t.Headers, nameHeader(b), grades.ColumnImageURL, yearHeader(b))
	for _, s := range ds.Table.Subjects {
		t.Headers = append(t.Headers, subjectHeader(b, s))
	}
	t.Headers = append(t.Headers, averageHeader(b))

	for _, i := range idx {
		s := ds.Summaries[i]
		row := []string{s.Name, s.ImageURL, yearLabel(b, s.Year)}
		for _, f := range s.Finals {
			row = append(row, formatScore(f))
		}
		row = append(row, formatScore(s.Average))
		t.Records = append(t.Records, row)
	}
	return t
}

// ExamsTable lists every exam score of the records at idx.
func ExamsTable(ds *grades.Dataset, idx []int, b *i18n.Bundle) Table {
	t := Table{Name: ExamsName}
	t.Headers = append(t.Headers, nameHeader(b), yearHeader(b))
	for _, s := range ds.Table.Subjects {
		for n := 1; n <= ds.Table.ExamCount; n++ {
			if b == nil {
				t.Headers = append(t.Headers, grades.ExamColumn(s, n))
			} else {
				t.Headers = append(t.Headers, b.Subject(s)+" "+b.Exam(n))
			}
		}
	}

	for _, i := range idx {
		rec := ds.Table.Records[i]
		row := []string{rec.Name, yearLabel(b, rec.Year)}
		for _, exams := range rec.Exams {
			for _, e := range exams {
				row = append(row, formatScore(e))
			}
		}
		t.Records = append(t.Records, row)
	}
	return t
}

// SubjectExamsTable lists name, year and the exams of one subject. It
// returns false when the subject is unknown.
func SubjectExamsTable(ds *grades.Dataset, idx []int, subject string, b *i18n.Bundle) (Table, bool) {
	si := ds.Table.SubjectIndex(subject)
	if si < 0 {
		return Table{}, false
	}
	t := Table{Name: subject}
	t.Headers = append(t.Headers, nameHeader(b), yearHeader(b))
	for n := 1; n <= ds.Table.ExamCount; n++ {
		if b == nil {
			t.Headers = append(t.Headers, grades.ExamColumn(subject, n))
		} else {
			t.Headers = append(t.Headers, b.Exam(n))
		}
	}
	for _, i := range idx {
		rec := ds.Table.Records[i]
		row := []string{rec.Name, yearLabel(b, rec.Year)}
		for _, e := range rec.SubjectExams(si) {
			row = append(row, formatScore(e))
		}
		t.Records = append(t.Records, row)
	}
	return t, true
}

func nameHeader(b *i18n.Bundle) string {
	if b == nil {
		return grades.ColumnName
	}
	return b.Labels.Student
}

func yearHeader(b *i18n.Bundle) string {
	if b == nil {
		return grades.ColumnYear
	}
	return b.Labels.Grade
}

func averageHeader(b *i18n.Bundle) string {
	if b == nil {
		return grades.ColumnAverage
	}
	return b.Labels.Average
}

func subjectHeader(b *i18n.Bundle, s string) string {
	if b == nil {
		return s
	}
	return b.Subject(s)
}

func yearLabel(b *i18n.Bundle, year string) string {
	if b == nil {
		return year
	}
	return b.Grade(year)
}
