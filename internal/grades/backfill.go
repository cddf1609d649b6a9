package grades

import "sort"

// DefaultLevels is the fixed, ordered set of school year labels.
var DefaultLevels = []string{
	"K", "1st", "2nd", "3rd", "4th", "5th", "6th",
	"7th", "8th", "9th", "10th", "11th", "12th",
}

// Backfill returns a new table in which every student has a row for every
// label in levels. Inserted rows carry the student's first image URL and
// missing scores. The result is sorted by student (first appearance) and
// then by year: labels from levels in their given order, any other label
// afterwards in lexical order. Running Backfill on its own output adds no
// rows and keeps the order.
func Backfill(t *Table, levels []string) *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Subjects:    append([]string(nil), t.Subjects...),
		ExamCount:   t.ExamCount,
		Fingerprint: t.Fingerprint,
		Records:     make([]Record, 0, len(t.Records)),
	}

	type studentInfo struct {
		order    int
		imageURL string
		years    map[string]bool
	}
	students := make(map[string]*studentInfo)
	var names []string
	for _, rec := range t.Records {
		info, ok := students[rec.Name]
		if !ok {
			info = &studentInfo{order: len(names), imageURL: rec.ImageURL, years: make(map[string]bool)}
			students[rec.Name] = info
			names = append(names, rec.Name)
		}
		info.years[rec.Year] = true
		out.Records = append(out.Records, rec)
	}

	for _, name := range names {
		info := students[name]
		for _, level := range levels {
			if info.years[level] {
				continue
			}
			out.Records = append(out.Records, Record{
				Name:     name,
				ImageURL: info.imageURL,
				Year:     level,
				Exams:    newExamGrid(len(out.Subjects), out.ExamCount),
			})
		}
	}

	rank := levelRank(levels)
	sort.SliceStable(out.Records, func(i, j int) bool {
		a, b := out.Records[i], out.Records[j]
		if a.Name != b.Name {
			return students[a.Name].order < students[b.Name].order
		}
		return yearLess(a.Year, b.Year, rank)
	})
	return out
}

func levelRank(levels []string) map[string]int {
	rank := make(map[string]int, len(levels))
	for i, l := range levels {
		if _, dup := rank[l]; !dup {
			rank[l] = i
		}
	}
	return rank
}

// yearLess orders known levels by rank and unknown labels after them.
func yearLess(a, b string, rank map[string]int) bool {
	ra, okA := rank[a]
	rb, okB := rank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// SortYears orders year labels the same way Backfill orders rows.
func SortYears(years []string, levels []string) {
	rank := levelRank(levels)
	sort.SliceStable(years, func(i, j int) bool {
		return yearLess(years[i], years[j], rank)
	})
}
