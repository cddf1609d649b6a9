package testutil

import (
	"log/slog"
	"testing"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		if got := handler.Count(); got != 2 {
			t.Errorf("Expected 2 records, got %d", got)
		}
		if !handler.ContainsMessage("test message") {
			t.Error("Expected to find 'test message'")
		}
		if !handler.ContainsAttr("key", "value") {
			t.Error("Expected to find attribute key=value")
		}
		if got := len(handler.GetRecordsByLevel(slog.LevelError)); got != 1 {
			t.Errorf("Expected 1 error record, got %d", got)
		}
	})

	t.Run("derived loggers share records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "refresher")).Warn("reload failed")

		AssertLogContains(t, handler, slog.LevelWarn, "reload failed")
		if !handler.ContainsAttr("component", "refresher") {
			t.Error("Expected With attributes on the record")
		}
	})
}

func TestSampleDataset(t *testing.T) {
	ds := SampleDataset(t)

	if got := len(ds.Summaries); got != 3 {
		t.Fatalf("Expected 3 summaries, got %d", got)
	}
	if got := ds.Summaries[2].Average.String(); got != "17" {
		t.Errorf("Expected Luis average 17, got %q", got)
	}
}
