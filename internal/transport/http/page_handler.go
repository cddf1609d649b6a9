package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// pageData is the template input.
type pageData struct {
	services.DashboardView
	SubjectChartURL string
	ExamChartURL    string
}

// PageHandler renders the dashboard HTML page.
type PageHandler struct {
	service      DashboardService
	languages    *LanguageResolver
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler creates a page handler.
func NewPageHandler(service DashboardService, languages *LanguageResolver, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PageHandler {
	return &PageHandler{
		service:      service,
		languages:    languages,
		logger:       logger.With(slog.String("component", "page_handler")),
		errorHandler: errorHandler,
	}
}

// ServePage handles GET /. Unknown filter values fall back to the defaults.
func (h *PageHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	q := parseDashboardQuery(r)
	view, err := h.service.Dashboard(r.Context(), q.filter(h.languages.Resolve(w, r)))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	data := pageData{
		DashboardView:   view,
		SubjectChartURL: chartURL("/charts/subjects.svg", view.Filter),
		ExamChartURL:    chartURL("/charts/exams.svg", view.Filter),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "page render failed", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func chartURL(path string, f services.Filter) string {
	v := url.Values{}
	v.Set("student", f.Student)
	v.Set("year", f.Year)
	v.Set("subject", f.Subject)
	v.Set("lang", f.Lang)
	return path + "?" + v.Encode()
}
