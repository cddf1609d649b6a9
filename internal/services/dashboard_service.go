package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gradesdash/internal/charts"
	"gradesdash/internal/exporter"
	"gradesdash/internal/grades"
	"gradesdash/internal/i18n"
	"gradesdash/internal/infrastructure"
)

// DatasetProvider returns the dataset snapshot in use. *grades.Store
// implements it.
type DatasetProvider interface {
	Current() *grades.Dataset
}

// Filter selects what the dashboard shows.
type Filter struct {
	Student string `json:"student"`
	Year    string `json:"year"`
	Subject string `json:"subject"`
	Lang    string `json:"lang"`
}

// Option is one dropdown entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the dropdown entries and the default selection.
type Options struct {
	Students  []Option `json:"students"`
	Years     []Option `json:"years"`
	Subjects  []Option `json:"subjects"`
	Languages []Option `json:"languages"`
	Defaults  Filter   `json:"defaults"`
}

// TableView is a rendered table.
type TableView struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Card is the student card: photo and overall average.
type Card struct {
	Student  string       `json:"student"`
	ImageURL string       `json:"image_url"`
	Average  grades.Score `json:"average"`
	Label    string       `json:"label"`
}

// DashboardView is everything the HTML page needs.
type DashboardView struct {
	Filter      Filter       `json:"filter"`
	Options     Options      `json:"options"`
	Labels      i18n.Labels  `json:"labels"`
	Summary     TableView    `json:"summary"`
	Card        Card         `json:"card"`
	Exams       TableView    `json:"exams"`
	Source      string       `json:"source"`
	Fingerprint string       `json:"fingerprint"`
	Bundle      *i18n.Bundle `json:"-"`
}

// ExportFilter narrows an export. Empty fields match every row; an empty
// Lang keeps the source column names.
type ExportFilter struct {
	Student string
	Year    string
	Lang    string
}

// DashboardService computes the dashboard views.
type DashboardService struct {
	store    DatasetProvider
	levels   []string
	renderer *charts.Renderer
	csv      *exporter.CSVWriter
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewDashboardService creates the service. Empty levels use
// grades.DefaultLevels; metrics may be nil.
func NewDashboardService(store DatasetProvider, levels []string, renderer *charts.Renderer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if len(levels) == 0 {
		levels = grades.DefaultLevels
	}
	if renderer == nil {
		renderer = charts.NewRenderer(0, 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:    store,
		levels:   levels,
		renderer: renderer,
		csv:      exporter.NewCSVWriter(),
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "dashboard_service"),
	}
}

// snapshot returns the current dataset or ErrNoDataset.
func (s *DashboardService) snapshot() (*grades.Dataset, error) {
	ds := s.store.Current()
	if ds == nil || ds.Table == nil || len(ds.Summaries) == 0 {
		return nil, ErrNoDataset
	}
	return ds, nil
}

// resolve fills defaults and checks every named value against ds. With
// strict unset, unknown values fall back to the defaults.
func (s *DashboardService) resolve(ds *grades.Dataset, f Filter, strict bool) (Filter, error) {
	if !i18n.Supported(f.Lang) {
		f.Lang = i18n.DefaultLanguage
	}

	students := ds.Students()
	years := ds.Years(s.levels)
	subjects := ds.Table.Subjects

	var err error
	if f.Student, err = pick(f.Student, students, strict, ErrStudentNotFound); err != nil {
		return f, err
	}
	if f.Year, err = pick(f.Year, years, strict, ErrYearNotFound); err != nil {
		return f, err
	}
	if f.Subject, err = pick(f.Subject, subjects, strict, ErrSubjectNotFound); err != nil {
		return f, err
	}
	return f, nil
}

func pick(value string, allowed []string, strict bool, notFound error) (string, error) {
	if len(allowed) == 0 {
		return "", notFound
	}
	if value == "" {
		return allowed[0], nil
	}
	for _, a := range allowed {
		if a == value {
			return value, nil
		}
	}
	if strict {
		return "", &LookupError{Err: notFound, Value: value}
	}
	return allowed[0], nil
}

// Resolve applies the defaults to f and validates it against the current
// dataset.
func (s *DashboardService) Resolve(ctx context.Context, f Filter) (Filter, error) {
	ds, err := s.snapshot()
	if err != nil {
		return f, err
	}
	return s.resolve(ds, f, true)
}

// Options lists students in first-appearance order, years in level order
// and subjects in column order, labelled in lang.
func (s *DashboardService) Options(ctx context.Context, lang string) (Options, error) {
	ds, err := s.snapshot()
	if err != nil {
		return Options{}, err
	}
	f, err := s.resolve(ds, Filter{Lang: lang}, false)
	if err != nil {
		return Options{}, err
	}
	return s.options(ds, f.Lang, f), nil
}

func (s *DashboardService) options(ds *grades.Dataset, lang string, defaults Filter) Options {
	b := i18n.Lookup(lang)
	opts := Options{Defaults: defaults}
	for _, name := range ds.Students() {
		opts.Students = append(opts.Students, Option{Value: name, Label: name})
	}
	for _, y := range ds.Years(s.levels) {
		opts.Years = append(opts.Years, Option{Value: y, Label: b.Grade(y)})
	}
	for _, subj := range ds.Table.Subjects {
		opts.Subjects = append(opts.Subjects, Option{Value: subj, Label: b.Subject(subj)})
	}
	for _, l := range i18n.Languages() {
		opts.Languages = append(opts.Languages, Option{Value: l.Code, Label: l.Name})
	}
	return opts
}

// SummaryRows returns the summary rows whose student and year equal the
// filter, with translated headers and year labels.
func (s *DashboardService) SummaryRows(ctx context.Context, f Filter) (TableView, error) {
	ds, err := s.snapshot()
	if err != nil {
		return TableView{}, err
	}
	if f, err = s.resolve(ds, f, true); err != nil {
		return TableView{}, err
	}
	return s.summaryRows(ds, f), nil
}

func (s *DashboardService) summaryRows(ds *grades.Dataset, f Filter) TableView {
	t := exporter.SummaryTable(ds, ds.Filter(f.Student, f.Year), i18n.Lookup(f.Lang))
	return tableView(t)
}

// StudentCard returns the student's photo (first row) and the rounded mean
// of the student's Grade Average over every year.
func (s *DashboardService) StudentCard(ctx context.Context, student, lang string) (Card, error) {
	ds, err := s.snapshot()
	if err != nil {
		return Card{}, err
	}
	f, err := s.resolve(ds, Filter{Student: student, Lang: lang}, true)
	if err != nil {
		return Card{}, err
	}
	return s.studentCard(ds, f), nil
}

func (s *DashboardService) studentCard(ds *grades.Dataset, f Filter) Card {
	b := i18n.Lookup(f.Lang)
	card := Card{Student: f.Student}

	var averages []grades.Score
	for i, idx := range ds.Filter(f.Student, "") {
		sum := ds.Summaries[idx]
		if i == 0 {
			card.ImageURL = sum.ImageURL
		}
		averages = append(averages, sum.Average)
	}
	card.Average = grades.Round(grades.Mean(averages))

	value := card.Average.String()
	if value == "" {
		value = b.Labels.NoData
	}
	card.Label = b.AverageCard(value)
	return card
}

// ExamRows returns Name, Year and one column per exam of the filtered
// subject, labelled in the filter language.
func (s *DashboardService) ExamRows(ctx context.Context, f Filter) (TableView, error) {
	ds, err := s.snapshot()
	if err != nil {
		return TableView{}, err
	}
	if f, err = s.resolve(ds, f, true); err != nil {
		return TableView{}, err
	}
	return s.examRows(ds, f), nil
}

func (s *DashboardService) examRows(ds *grades.Dataset, f Filter) TableView {
	t, _ := exporter.SubjectExamsTable(ds, ds.Filter(f.Student, f.Year), f.Subject, i18n.Lookup(f.Lang))
	return tableView(t)
}

// SubjectChart writes the bar chart of subject finals as SVG. Duplicate
// rows for the same student and year are averaged.
func (s *DashboardService) SubjectChart(ctx context.Context, w io.Writer, f Filter) error {
	ds, err := s.snapshot()
	if err != nil {
		return err
	}
	if f, err = s.resolve(ds, f, true); err != nil {
		return err
	}

	b := i18n.Lookup(f.Lang)
	idx := ds.Filter(f.Student, f.Year)
	points := make([]charts.Point, len(ds.Table.Subjects))
	for si, subj := range ds.Table.Subjects {
		finals := make([]grades.Score, 0, len(idx))
		for _, i := range idx {
			finals = append(finals, ds.Summaries[i].Finals[si])
		}
		points[si] = charts.Point{Label: b.Subject(subj), Score: grades.Mean(finals)}
	}

	return s.render(ctx, w, "subjects", b, func(buf io.Writer) error {
		return s.renderer.Bars(buf, b.SubjectChartTitle(f.Student, f.Year), points)
	})
}

// ExamChart writes the line chart of the subject's exam scores as SVG.
// Duplicate rows are averaged per exam.
func (s *DashboardService) ExamChart(ctx context.Context, w io.Writer, f Filter) error {
	ds, err := s.snapshot()
	if err != nil {
		return err
	}
	if f, err = s.resolve(ds, f, true); err != nil {
		return err
	}

	b := i18n.Lookup(f.Lang)
	si := ds.Table.SubjectIndex(f.Subject)
	idx := ds.Filter(f.Student, f.Year)
	points := make([]charts.Point, ds.Table.ExamCount)
	for e := 0; e < ds.Table.ExamCount; e++ {
		scores := make([]grades.Score, 0, len(idx))
		for _, i := range idx {
			scores = append(scores, ds.Table.Records[i].Exams[si][e])
		}
		points[e] = charts.Point{Label: b.Exam(e + 1), Score: grades.Mean(scores)}
	}

	return s.render(ctx, w, "exams", b, func(buf io.Writer) error {
		return s.renderer.Line(buf, b.ExamChartTitle(f.Student, f.Subject, f.Year), b.Labels.Score, points)
	})
}

// render buffers a chart so a failed render never leaves a partial SVG; a
// chart without data becomes a placeholder.
func (s *DashboardService) render(ctx context.Context, w io.Writer, kind string, b *i18n.Bundle, draw func(io.Writer) error) error {
	var buf bytes.Buffer
	err := draw(&buf)
	empty := errors.Is(err, charts.ErrNoData)
	if empty {
		buf.Reset()
		err = s.renderer.Placeholder(&buf, b.Labels.NoData)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "chart render failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to render %s chart: %w", kind, err)
	}

	infrastructure.RecordChartRender(ctx, s.metrics, kind, empty)
	_, err = buf.WriteTo(w)
	return err
}

// Dashboard builds the whole page. Unknown filter values are replaced by
// the defaults rather than rejected.
func (s *DashboardService) Dashboard(ctx context.Context, f Filter) (DashboardView, error) {
	ds, err := s.snapshot()
	if err != nil {
		return DashboardView{}, err
	}
	if f, err = s.resolve(ds, f, false); err != nil {
		return DashboardView{}, err
	}

	b := i18n.Lookup(f.Lang)
	defaults, _ := s.resolve(ds, Filter{Lang: f.Lang}, false)
	return DashboardView{
		Filter:      f,
		Options:     s.options(ds, f.Lang, defaults),
		Labels:      b.Labels,
		Summary:     s.summaryRows(ds, f),
		Card:        s.studentCard(ds, f),
		Exams:       s.examRows(ds, f),
		Source:      ds.Source,
		Fingerprint: ds.Fingerprint(),
		Bundle:      b,
	}, nil
}

// exportTables resolves an export filter into the summary and exam tables.
func (s *DashboardService) exportTables(f ExportFilter) (exporter.Table, exporter.Table, error) {
	ds, err := s.snapshot()
	if err != nil {
		return exporter.Table{}, exporter.Table{}, err
	}
	if f.Student != "" {
		if _, err := pick(f.Student, ds.Students(), true, ErrStudentNotFound); err != nil {
			return exporter.Table{}, exporter.Table{}, err
		}
	}
	if f.Year != "" {
		if _, err := pick(f.Year, ds.Years(s.levels), true, ErrYearNotFound); err != nil {
			return exporter.Table{}, exporter.Table{}, err
		}
	}

	var b *i18n.Bundle
	if f.Lang != "" {
		b = i18n.Lookup(f.Lang)
	}
	idx := ds.Filter(f.Student, f.Year)
	return exporter.SummaryTable(ds, idx, b), exporter.ExamsTable(ds, idx, b), nil
}

// ExportCSV writes the summary table as CSV with a UTF-8 BOM.
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer, f ExportFilter) error {
	summary, _, err := s.exportTables(f)
	if err != nil {
		return err
	}
	if err := s.csv.Write(w, summary, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	infrastructure.RecordExport(ctx, s.metrics, "csv")
	return nil
}

// ExportXLSX writes a workbook with the summary and exam sheets.
func (s *DashboardService) ExportXLSX(ctx context.Context, w io.Writer, f ExportFilter) error {
	summary, exams, err := s.exportTables(f)
	if err != nil {
		return err
	}
	if err := exporter.WriteWorkbook(w, summary, exams); err != nil {
		return fmt.Errorf("failed to write xlsx export: %w", err)
	}
	infrastructure.RecordExport(ctx, s.metrics, "xlsx")
	return nil
}

func tableView(t exporter.Table) TableView {
	rows := t.Records
	if rows == nil {
		rows = [][]string{}
	}
	return TableView{Name: t.Name, Headers: t.Headers, Rows: rows}
}
