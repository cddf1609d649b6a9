package services

import (
	"errors"
	"fmt"
)

// Dashboard errors
var (
	ErrNoDataset       = errors.New("no dataset loaded")
	ErrStudentNotFound = errors.New("student not found")
	ErrYearNotFound    = errors.New("year not found")
	ErrSubjectNotFound = errors.New("subject not found")
)

// LookupError names the filter value that matched nothing. It unwraps to
// one of the not-found sentinels.
type LookupError struct {
	Err   error
	Value string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Value)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
