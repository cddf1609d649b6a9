package http

import (
	"context"
	"io"

	"gradesdash/internal/services"
)

// DashboardService defines the dashboard operations the handlers need.
// *services.DashboardService implements it.
type DashboardService interface {
	Options(ctx context.Context, lang string) (services.Options, error)
	SummaryRows(ctx context.Context, f services.Filter) (services.TableView, error)
	StudentCard(ctx context.Context, student, lang string) (services.Card, error)
	ExamRows(ctx context.Context, f services.Filter) (services.TableView, error)
	SubjectChart(ctx context.Context, w io.Writer, f services.Filter) error
	ExamChart(ctx context.Context, w io.Writer, f services.Filter) error
	Dashboard(ctx context.Context, f services.Filter) (services.DashboardView, error)
	ExportCSV(ctx context.Context, w io.Writer, f services.ExportFilter) error
	ExportXLSX(ctx context.Context, w io.Writer, f services.ExportFilter) error
}

// HealthService defines the health operations.
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
	SystemStats(ctx context.Context) services.SystemStats
}
