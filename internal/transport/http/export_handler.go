package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/services"
)

// Export content types.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler serves the summary downloads.
type ExportHandler struct {
	service      DashboardService
	languages    *LanguageResolver
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler.
func NewExportHandler(service DashboardService, languages *LanguageResolver, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		languages:    languages,
		validator:    validator,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes, mounted under /export.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary.csv", h.ExportCSV)
	r.Get("/summary.xlsx", h.ExportXLSX)
	return r
}

// ExportCSV handles GET /export/summary.csv
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", ContentTypeCSV, h.service.ExportCSV)
}

// ExportXLSX handles GET /export/summary.xlsx
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", ContentTypeXLSX, h.service.ExportXLSX)
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(context.Context, io.Writer, services.ExportFilter) error) {
	q := parseExportQuery(r)
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := write(r.Context(), &buf, q.filter(h.languages.Resolve(w, r))); err != nil {
		h.logger.WarnContext(r.Context(), "export failed",
			slog.String("format", ext),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	filename := fmt.Sprintf("grades_summary_%s.%s", time.Now().Format("20060102"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("format", ext),
			slog.String("error", err.Error()))
	}
}
