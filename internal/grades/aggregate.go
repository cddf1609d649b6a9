package grades

import "math"

// Mean averages the valid scores; it is missing when none are valid.
func Mean(scores []Score) Score {
	var sum float64
	n := 0
	for _, s := range scores {
		if !s.Valid {
			continue
		}
		sum += s.Value
		n++
	}
	if n == 0 {
		return Missing()
	}
	return Of(sum / float64(n))
}

// Round rounds half to even at zero decimal places, the behaviour of the
// numeric library the original dashboards were written against.
func Round(s Score) Score {
	if !s.Valid {
		return s
	}
	return Of(math.RoundToEven(s.Value))
}

// SubjectFinal is the rounded mean of one subject's exams.
func SubjectFinal(exams []Score) Score {
	return Round(Mean(exams))
}

// GradeAverage is the rounded mean of the (already rounded) subject finals.
func GradeAverage(finals []Score) Score {
	return Round(Mean(finals))
}

// Summarize derives the summary for a single record.
func Summarize(rec Record) Summary {
	finals := make([]Score, len(rec.Exams))
	for i, exams := range rec.Exams {
		finals[i] = SubjectFinal(exams)
	}
	return Summary{
		Name:     rec.Name,
		ImageURL: rec.ImageURL,
		Year:     rec.Year,
		Finals:   finals,
		Average:  GradeAverage(finals),
	}
}

// Aggregate derives one Summary per record, in record order. The input is
// not modified.
func Aggregate(t *Table) []Summary {
	if t == nil {
		return nil
	}
	out := make([]Summary, len(t.Records))
	for i, rec := range t.Records {
		out[i] = Summarize(rec)
	}
	return out
}
