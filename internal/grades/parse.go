package grades

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Parse errors.
var (
	ErrEmptyTable     = errors.New("grade table is empty")
	ErrMissingColumn  = errors.New("required column missing")
	ErrNoSubjects     = errors.New("no subject exam columns found")
	ErrInvalidSubject = errors.New("invalid subject column")
)

// examColumnRe matches headers like "Math Exam 1" or "Biologia Exam 3".
var examColumnRe = regexp.MustCompile(`^(.*\S)\s+Exam\s+(\d+)$`)

type examColumn struct {
	subject int
	exam    int
	index   int
}

// ParseTable builds a Table from raw CSV-like rows. The first non-blank row
// is the header. Rows whose cells are all blank are skipped. Numeric cells
// are coerced with ParseScore.
func ParseTable(rows [][]string) (*Table, error) {
	header := -1
	for i, row := range rows {
		if !blankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, ErrEmptyTable
	}

	cols := normalizeHeader(rows[header])
	nameIdx := indexOf(cols, ColumnName)
	yearIdx := indexOf(cols, ColumnYear)
	imageIdx := indexOf(cols, ColumnImageURL)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnName)
	}
	if yearIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnYear)
	}

	var subjects []string
	subjectPos := make(map[string]int)
	var exams []examColumn
	examCount := 0
	for i, col := range cols {
		m := examColumnRe.FindStringSubmatch(col)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSubject, col)
		}
		pos, ok := subjectPos[m[1]]
		if !ok {
			pos = len(subjects)
			subjectPos[m[1]] = pos
			subjects = append(subjects, m[1])
		}
		exams = append(exams, examColumn{subject: pos, exam: n, index: i})
		if n > examCount {
			examCount = n
		}
	}
	if len(subjects) == 0 {
		return nil, ErrNoSubjects
	}
	sort.SliceStable(exams, func(i, j int) bool {
		if exams[i].subject != exams[j].subject {
			return exams[i].subject < exams[j].subject
		}
		return exams[i].exam < exams[j].exam
	})

	table := &Table{
		Subjects:    subjects,
		ExamCount:   examCount,
		Fingerprint: fingerprint(rows[header:]),
	}
	for _, row := range rows[header+1:] {
		if blankRow(row) {
			continue
		}
		rec := Record{
			Name:     strings.TrimSpace(cell(row, nameIdx)),
			ImageURL: strings.TrimSpace(cell(row, imageIdx)),
			Year:     strings.TrimSpace(cell(row, yearIdx)),
			Exams:    newExamGrid(len(subjects), examCount),
		}
		for _, ec := range exams {
			rec.Exams[ec.subject][ec.exam-1] = ParseScore(cell(row, ec.index))
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// newExamGrid allocates an all-missing [subject][exam] grid.
func newExamGrid(subjects, examCount int) [][]Score {
	grid := make([][]Score, subjects)
	for i := range grid {
		grid[i] = make([]Score, examCount)
	}
	return grid
}

func normalizeHeader(row []string) []string {
	cols := make([]string, len(row))
	for i, c := range row {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		cols[i] = strings.Join(strings.Fields(c), " ")
	}
	return cols
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// fingerprint hashes the cell contents so a refresh can tell whether the
// source actually changed.
func fingerprint(rows [][]string) string {
	h := sha256.New()
	for _, row := range rows {
		for _, c := range row {
			h.Write([]byte(c))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}
