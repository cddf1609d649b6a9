// Package http implements the HTTP handlers of the grades dashboard. Handlers
// are a thin layer between the transport and the services: they parse and
// validate the query, call a service and format the response.
//
// # Routes
//
//	GET /                         dashboard page (html/template)
//	GET /charts/subjects.svg      subject finals bar chart
//	GET /charts/exams.svg         exam scores line chart
//	GET /api/dashboard/options    dropdown entries and defaults
//	GET /api/dashboard/summary    filtered summary rows
//	GET /api/dashboard/card       student photo and overall average
//	GET /api/dashboard/exams      exam rows of one subject
//	GET /export/summary.csv       CSV download
//	GET /export/summary.xlsx      workbook download
//	GET /api/health[/ready|/live] health checks
//	GET /api/version              build information
//
// # Error Handling
//
// Every error is an RFC 7807 problem rendered by errors.ErrorHandler:
//
//	{
//	    "type": "/errors/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "student \"Bob\" not found",
//	    "instance": "/api/dashboard/summary",
//	    "error_code": "STUDENT_NOT_FOUND"
//	}
//
// The JSON API and the charts reject unknown students, years and subjects.
// The page replaces them with the defaults instead.
//
// # Language
//
// The lang query parameter wins, then the signed preference cookie, then
// Accept-Language. A lang parameter is remembered in the cookie.
package http
