// Package i18n holds the static label tables for the dashboard languages and
// negotiates a language from request headers.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing else matches.
const DefaultLanguage = "en"

// Labels are the translatable strings of the page.
type Labels struct {
	Title                        string `json:"title"`
	Student                      string `json:"student"`
	Grade                        string `json:"grade"`
	Subject                      string `json:"subject"`
	Language                     string `json:"language"`
	ExamFormat                   string `json:"exam_format"`
	Average                      string `json:"average"`
	DownloadApp                  string `json:"download_app"`
	PerformanceOverview          string `json:"performance_overview"`
	DetailedExamPerformance      string `json:"detailed_exam_performance"`
	PerformanceOverTime          string `json:"performance_over_time"`
	SubjectPerformanceComparison string `json:"subject_performance_comparison"`
	Score                        string `json:"score"`
	Export                       string `json:"export"`
	NoData                       string `json:"no_data"`
	Of                           string `json:"of"`
	In                           string `json:"in"`
}

// Bundle is everything needed to render the dashboard in one language.
type Bundle struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Labels   Labels            `json:"labels"`
	Grades   map[string]string `json:"grades"`
	Subjects map[string]string `json:"subjects"`
}

// Grade returns the display label of a year level, or the raw label when
// the bundle has no translation for it.
func (b *Bundle) Grade(year string) string {
	if v, ok := b.Grades[year]; ok {
		return v
	}
	return year
}

// Subject returns the display name of a subject column.
func (b *Bundle) Subject(name string) string {
	if v, ok := b.Subjects[name]; ok {
		return v
	}
	return name
}

// Exam returns the column label of exam n (1-based).
func (b *Bundle) Exam(n int) string {
	return fmt.Sprintf(b.Labels.ExamFormat, n)
}

// AverageCard renders the student card line.
func (b *Bundle) AverageCard(avg string) string {
	return b.Labels.Average + ": " + avg
}

// SubjectChartTitle titles the subject comparison chart.
func (b *Bundle) SubjectChartTitle(student, year string) string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		b.Labels.SubjectPerformanceComparison, b.Labels.Of, student,
		b.Labels.In, b.Grade(year), b.Labels.Grade)
}

// ExamChartTitle titles the exam line chart.
func (b *Bundle) ExamChartTitle(student, subject, year string) string {
	return fmt.Sprintf("%s %s %s %s %s (%s)",
		b.Labels.PerformanceOverTime, b.Labels.Of, student,
		b.Labels.In, b.Subject(subject), b.Grade(year))
}

var (
	bundles = map[string]*Bundle{
		"en": english,
		"es": spanish,
	}
	order   = []string{"en", "es"}
	matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})
)

// Lookup returns the bundle for code, falling back to English.
func Lookup(code string) *Bundle {
	if b, ok := bundles[code]; ok {
		return b
	}
	return bundles[DefaultLanguage]
}

// Supported reports whether code names a bundled language.
func Supported(code string) bool {
	_, ok := bundles[code]
	return ok
}

// Languages returns the bundles in display order.
func Languages() []*Bundle {
	out := make([]*Bundle, 0, len(order))
	for _, code := range order {
		out = append(out, bundles[code])
	}
	return out
}

// Negotiate picks a bundled language from an Accept-Language header value.
func Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return order[idx]
}
