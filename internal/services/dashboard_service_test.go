package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gradesdash/internal/charts"
	"gradesdash/internal/grades"
	"gradesdash/internal/shared/testutil"
)

func testLogger(t *testing.T) *slog.Logger {
	logger, _ := testutil.NewTestLogger(t)
	return logger
}

func newTestDashboard(t *testing.T) *DashboardService {
	t.Helper()
	store := grades.NewStore(testutil.SampleDataset(t))
	return NewDashboardService(store, nil, charts.NewRenderer(0, 0), nil, testLogger(t))
}

func TestDashboardNoDataset(t *testing.T) {
	svc := NewDashboardService(grades.NewStore(nil), nil, nil, nil, testLogger(t))
	ctx := context.Background()

	_, err := svc.Options(ctx, "en")
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = svc.Dashboard(ctx, Filter{})
	assert.ErrorIs(t, err, ErrNoDataset)

	err = svc.ExportCSV(ctx, &bytes.Buffer{}, ExportFilter{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestDashboardOptions(t *testing.T) {
	svc := newTestDashboard(t)

	tests := []struct {
		name     string
		lang     string
		years    []string
		subjects []string
	}{
		{"english", "en", []string{"1st", "2nd"}, []string{"Math", "Art"}},
		{"spanish", "es", []string{"1ro", "2do"}, []string{"Matemáticas", "Arte"}},
		{"unknown falls back to english", "fr", []string{"1st", "2nd"}, []string{"Math", "Art"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := svc.Options(context.Background(), tt.lang)
			require.NoError(t, err)

			assert.Equal(t, []Option{{"Ana", "Ana"}, {"Luis", "Luis"}}, opts.Students)
			require.Len(t, opts.Years, 2)
			assert.Equal(t, "1st", opts.Years[0].Value)
			assert.Equal(t, tt.years, []string{opts.Years[0].Label, opts.Years[1].Label})
			assert.Equal(t, tt.subjects, []string{opts.Subjects[0].Label, opts.Subjects[1].Label})
			assert.Len(t, opts.Languages, 2)
			assert.Equal(t, Filter{Student: "Ana", Year: "1st", Subject: "Math", Lang: opts.Defaults.Lang}, opts.Defaults)
		})
	}
}

func TestDashboardResolve(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()

	f, err := svc.Resolve(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, Filter{Student: "Ana", Year: "1st", Subject: "Math", Lang: "en"}, f)

	tests := []struct {
		name   string
		filter Filter
		want   error
	}{
		{"unknown student", Filter{Student: "Nobody"}, ErrStudentNotFound},
		{"unknown year", Filter{Year: "9th"}, ErrYearNotFound},
		{"unknown subject", Filter{Subject: "Music"}, ErrSubjectNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(ctx, tt.filter)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDashboardSummaryRows(t *testing.T) {
	svc := newTestDashboard(t)

	view, err := svc.SummaryRows(context.Background(), Filter{Student: "Ana", Year: "2nd", Lang: "es"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Estudiante", "Image URL", "Grado", "Matemáticas", "Arte", "Promedio"}, view.Headers)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, []string{"Ana", "https://example.com/ana.png", "2do", "10", "", "10"}, view.Rows[0])
}

func TestDashboardSummaryRowsOnlyMatchFilter(t *testing.T) {
	svc := newTestDashboard(t)

	view, err := svc.SummaryRows(context.Background(), Filter{Student: "Luis", Year: "1st"})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Luis", view.Rows[0][0])
	assert.Equal(t, "19", view.Rows[0][3])
	assert.Equal(t, "15", view.Rows[0][4])
	assert.Equal(t, "17", view.Rows[0][5])
}

func TestDashboardStudentCard(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()

	card, err := svc.StudentCard(ctx, "Ana", "en")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/ana.png", card.ImageURL)
	assert.Equal(t, grades.Of(10), card.Average)
	assert.Equal(t, "Average: 10", card.Label)

	card, err = svc.StudentCard(ctx, "Luis", "es")
	require.NoError(t, err)
	assert.Equal(t, "Promedio: 17", card.Label)

	_, err = svc.StudentCard(ctx, "Nobody", "en")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDashboardStudentCardWithoutScores(t *testing.T) {
	path := testutil.WriteCSV(t, "Name,Image URL,Year,Math Exam 1\nEva,,1st,\n")
	ds, err := grades.Load(context.Background(), &grades.FileSource{Path: path}, grades.LoadOptions{})
	require.NoError(t, err)

	svc := NewDashboardService(grades.NewStore(ds), nil, nil, nil, testLogger(t))
	card, err := svc.StudentCard(context.Background(), "Eva", "es")
	require.NoError(t, err)
	assert.False(t, card.Average.Valid)
	assert.Equal(t, "Promedio: Sin datos", card.Label)
}

func TestDashboardExamRows(t *testing.T) {
	svc := newTestDashboard(t)

	view, err := svc.ExamRows(context.Background(), Filter{Student: "Ana", Year: "1st", Subject: "Art", Lang: "es"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Estudiante", "Grado", "Lapso 1", "Lapso 2", "Lapso 3"}, view.Headers)
	assert.Equal(t, [][]string{{"Ana", "1ro", "10", "12", "8"}}, view.Rows)
}

func TestDashboardCharts(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.SubjectChart(ctx, &buf, Filter{Student: "Luis", Year: "1st"}))
	assert.Contains(t, buf.String(), "<svg")

	buf.Reset()
	require.NoError(t, svc.ExamChart(ctx, &buf, Filter{Student: "Ana", Year: "1st", Subject: "Math"}))
	assert.Contains(t, buf.String(), "<svg")

	buf.Reset()
	err := svc.ExamChart(ctx, &buf, Filter{Subject: "Music"})
	assert.ErrorIs(t, err, ErrSubjectNotFound)
	assert.Zero(t, buf.Len())
}

func TestDashboardChartPlaceholder(t *testing.T) {
	svc := newTestDashboard(t)

	var buf bytes.Buffer
	err := svc.ExamChart(context.Background(), &buf, Filter{Student: "Ana", Year: "2nd", Subject: "Art", Lang: "es"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Sin datos")
}

func TestDashboardPageIsLenient(t *testing.T) {
	svc := newTestDashboard(t)

	view, err := svc.Dashboard(context.Background(), Filter{Student: "Nobody", Year: "2nd", Subject: "Music", Lang: "xx"})
	require.NoError(t, err)

	assert.Equal(t, Filter{Student: "Ana", Year: "2nd", Subject: "Math", Lang: "en"}, view.Filter)
	assert.Equal(t, "Average: 10", view.Card.Label)
	require.Len(t, view.Summary.Rows, 1)
	assert.Equal(t, [][]string{{"Ana", "2nd", "9", "", "11"}}, view.Exams.Rows)
	assert.NotEmpty(t, view.Fingerprint)
	assert.Equal(t, "en", view.Bundle.Code)
}

func TestDashboardExportCSV(t *testing.T) {
	svc := newTestDashboard(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, ExportFilter{Student: "Ana"}))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Image URL", "Year", "Math", "Art", "Grade Average"}, records[0])
	assert.Equal(t, "Ana", records[1][0])
	assert.Equal(t, "Ana", records[2][0])

	err = svc.ExportCSV(context.Background(), &buf, ExportFilter{Year: "12th"})
	assert.ErrorIs(t, err, ErrYearNotFound)
}

func TestDashboardExportXLSX(t *testing.T) {
	svc := newTestDashboard(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), &buf, ExportFilter{Lang: "es"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Exams"}, f.GetSheetList())
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Estudiante", rows[0][0])
}
