package http

import (
	"net/http"
	"strings"

	"gradesdash/internal/services"
)

// StructValidator validates tagged structs. *middleware.Validator
// implements it.
type StructValidator interface {
	ValidateStruct(s interface{}) error
}

// DashboardQuery is the filter of the dashboard API and chart endpoints.
type DashboardQuery struct {
	Student string `query:"student" validate:"omitempty,max=200,printable"`
	Year    string `query:"year" validate:"omitempty,max=32,printable"`
	Subject string `query:"subject" validate:"omitempty,max=100,printable"`
	Lang    string `query:"lang" validate:"omitempty,lang"`
}

// ExportQuery narrows an export. Raw keeps the source column names.
type ExportQuery struct {
	Student string `query:"student" validate:"omitempty,max=200,printable"`
	Year    string `query:"year" validate:"omitempty,max=32,printable"`
	Lang    string `query:"lang" validate:"omitempty,lang"`
	Raw     bool   `query:"raw"`
}

func parseDashboardQuery(r *http.Request) DashboardQuery {
	q := r.URL.Query()
	return DashboardQuery{
		Student: strings.TrimSpace(q.Get("student")),
		Year:    strings.TrimSpace(q.Get("year")),
		Subject: strings.TrimSpace(q.Get("subject")),
		Lang:    strings.TrimSpace(q.Get("lang")),
	}
}

func parseExportQuery(r *http.Request) ExportQuery {
	q := r.URL.Query()
	raw := q.Get("raw")
	return ExportQuery{
		Student: strings.TrimSpace(q.Get("student")),
		Year:    strings.TrimSpace(q.Get("year")),
		Lang:    strings.TrimSpace(q.Get("lang")),
		Raw:     raw == "1" || raw == "true",
	}
}

// filter converts the query, using lang when the query names none.
func (q DashboardQuery) filter(lang string) services.Filter {
	if q.Lang != "" {
		lang = q.Lang
	}
	return services.Filter{Student: q.Student, Year: q.Year, Subject: q.Subject, Lang: lang}
}

func (q ExportQuery) filter(lang string) services.ExportFilter {
	if q.Lang != "" {
		lang = q.Lang
	}
	if q.Raw {
		lang = ""
	}
	return services.ExportFilter{Student: q.Student, Year: q.Year, Lang: lang}
}
