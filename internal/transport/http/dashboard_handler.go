package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/middleware"
	"gradesdash/internal/services"
)

// DashboardHandler serves the dashboard JSON API and the SVG charts.
type DashboardHandler struct {
	service      DashboardService
	languages    *LanguageResolver
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardService, languages *LanguageResolver, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		languages:    languages,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the JSON API routes, mounted under /api/dashboard.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/options", h.GetOptions)
	r.Get("/summary", h.GetSummary)
	r.Get("/card", h.GetCard)
	r.Get("/exams", h.GetExams)
	return r
}

// ChartRoutes returns the SVG routes, mounted under /charts.
func (h *DashboardHandler) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/subjects.svg", h.GetSubjectChart)
	r.Get("/exams.svg", h.GetExamChart)
	return r
}

// query parses and validates the dashboard query. It writes the problem
// response and returns false when validation fails.
func (h *DashboardHandler) query(w http.ResponseWriter, r *http.Request) (DashboardQuery, bool) {
	q := parseDashboardQuery(r)
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.WarnContext(r.Context(), op+" failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())))
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	opts, err := h.service.Options(r.Context(), q.filter(h.languages.Resolve(w, r)).Lang)
	if err != nil {
		h.fail(w, r, "options", err)
		return
	}
	render.JSON(w, r, opts)
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	view, err := h.service.SummaryRows(r.Context(), q.filter(h.languages.Resolve(w, r)))
	if err != nil {
		h.fail(w, r, "summary", err)
		return
	}
	render.JSON(w, r, view)
}

// GetCard handles GET /api/dashboard/card
func (h *DashboardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	f := q.filter(h.languages.Resolve(w, r))
	card, err := h.service.StudentCard(r.Context(), f.Student, f.Lang)
	if err != nil {
		h.fail(w, r, "card", err)
		return
	}
	render.JSON(w, r, card)
}

// GetExams handles GET /api/dashboard/exams
func (h *DashboardHandler) GetExams(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	view, err := h.service.ExamRows(r.Context(), q.filter(h.languages.Resolve(w, r)))
	if err != nil {
		h.fail(w, r, "exams", err)
		return
	}
	render.JSON(w, r, view)
}

// GetSubjectChart handles GET /charts/subjects.svg
func (h *DashboardHandler) GetSubjectChart(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, "subject chart", h.service.SubjectChart)
}

// GetExamChart handles GET /charts/exams.svg
func (h *DashboardHandler) GetExamChart(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, "exam chart", h.service.ExamChart)
}

// chart buffers the SVG so a failed render still gets a problem response.
func (h *DashboardHandler) chart(w http.ResponseWriter, r *http.Request, op string, draw func(context.Context, io.Writer, services.Filter) error) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := draw(r.Context(), &buf, q.filter(h.languages.Resolve(w, r))); err != nil {
		h.fail(w, r, op, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
