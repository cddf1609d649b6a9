package http

import (
	"errors"
	"net/http"

	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/services"
)

// Error codes of the dashboard API.
const (
	CodeNoDataset       = "NO_DATASET"
	CodeStudentNotFound = "STUDENT_NOT_FOUND"
	CodeYearNotFound    = "YEAR_NOT_FOUND"
	CodeSubjectNotFound = "SUBJECT_NOT_FOUND"
)

// mapServiceError converts service sentinel errors to API errors. Other
// errors are returned unchanged and become 500 problems.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoDataset):
		return apierrors.New(http.StatusServiceUnavailable, CodeNoDataset, "No grade dataset is loaded")
	case errors.Is(err, services.ErrStudentNotFound):
		return notFound(CodeStudentNotFound, "student", err)
	case errors.Is(err, services.ErrYearNotFound):
		return notFound(CodeYearNotFound, "year", err)
	case errors.Is(err, services.ErrSubjectNotFound):
		return notFound(CodeSubjectNotFound, "subject", err)
	default:
		return err
	}
}

func notFound(code, resource string, err error) *apierrors.APIError {
	var value string
	var lookup *services.LookupError
	if errors.As(err, &lookup) {
		value = lookup.Value
	}
	return apierrors.NotFoundError(resource, value).WithCode(code)
}
