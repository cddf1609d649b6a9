// Package services implements the dashboard views on top of the in-memory
// grade dataset, the periodic source refresher and the health checks.
//
// Every view is a pure function of (dataset snapshot, filter, language).
// A view reads the current snapshot once from the DatasetProvider and never
// holds it across calls, so a refresh swapping the dataset is never observed
// half way through a request.
//
// # Filters
//
// A Filter names a student, a year, a subject and a language. Empty fields
// take the defaults (first student, first year, first subject, English).
// Strict resolution, used by the JSON API and the chart endpoints, rejects
// unknown values with ErrStudentNotFound, ErrYearNotFound or
// ErrSubjectNotFound. Lenient resolution, used by the HTML page, replaces
// them with the defaults.
package services
