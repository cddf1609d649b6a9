// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and grade
// fixtures for handler and service tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	ds := testutil.SampleDataset(t)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
package shared
