package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gradesdash/internal/grades"
	"gradesdash/internal/infrastructure"
	ws "gradesdash/internal/websocket"
)

// Broadcaster fans an event out to the live-refresh clients. *websocket.Hub
// implements it.
type Broadcaster interface {
	Broadcast(ctx context.Context, msgType string, data interface{})
}

// DatasetStore is the writable side of the dataset store.
type DatasetStore interface {
	DatasetProvider
	Replace(ds *grades.Dataset) bool
}

// DatasetUpdate is the payload of a dataset.updated event.
type DatasetUpdate struct {
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	Rows        int       `json:"rows"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// RefreshStatus describes the last refresh attempt.
type RefreshStatus struct {
	Interval    time.Duration `json:"interval"`
	LastAttempt time.Time     `json:"last_attempt,omitempty"`
	LastSwap    time.Time     `json:"last_swap,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
	Swaps       int           `json:"swaps"`
}

// Refresher reloads the source on a ticker and swaps the dataset in when
// its fingerprint changed.
type Refresher struct {
	source      grades.Source
	store       DatasetStore
	opts        grades.LoadOptions
	interval    time.Duration
	broadcaster Broadcaster
	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger

	mu     sync.RWMutex
	status RefreshStatus
}

// NewRefresher creates a refresher. broadcaster and metrics may be nil.
func NewRefresher(source grades.Source, store DatasetStore, opts grades.LoadOptions, interval time.Duration, broadcaster Broadcaster, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		source:      source,
		store:       store,
		opts:        opts,
		interval:    interval,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      infrastructure.WithComponent(logger, "refresher"),
		status:      RefreshStatus{Interval: interval},
	}
}

// RefreshOnce loads the source and swaps the dataset in when it changed.
// A failed load keeps the current dataset.
func (r *Refresher) RefreshOnce(ctx context.Context) (bool, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()
	ds, err := grades.Load(ctx, r.source, r.opts)

	rows := 0
	if ds != nil {
		rows = len(ds.Summaries)
	}
	infrastructure.RecordDatasetLoad(ctx, r.metrics, r.source.Name(), rows, time.Since(start), err)

	r.mu.Lock()
	r.status.LastAttempt = start
	if err != nil {
		r.status.LastError = err.Error()
		r.mu.Unlock()
		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "dataset refresh failed",
			slog.String("source", r.source.Name()))
		return false, err
	}
	r.status.LastError = ""
	r.mu.Unlock()

	if !r.store.Replace(ds) {
		r.logger.DebugContext(ctx, "dataset unchanged",
			slog.String("fingerprint", ds.Fingerprint()))
		return false, nil
	}

	r.mu.Lock()
	r.status.LastSwap = time.Now()
	r.status.Swaps++
	r.mu.Unlock()

	infrastructure.RecordDatasetSwap(ctx, r.metrics)
	r.logger.InfoContext(ctx, "dataset swapped",
		slog.String("source", ds.Source),
		slog.String("fingerprint", ds.Fingerprint()),
		slog.Int("rows", rows))

	if r.broadcaster != nil {
		r.broadcaster.Broadcast(ctx, ws.TypeDatasetUpdated, DatasetUpdate{
			Source:      ds.Source,
			Fingerprint: ds.Fingerprint(),
			Rows:        rows,
			LoadedAt:    ds.LoadedAt,
		})
	}
	return true, nil
}

// Run refreshes on every tick until ctx is done. It returns immediately
// when the interval is not positive.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Info("dataset refresh disabled")
		return nil
	}

	r.logger.Info("dataset refresher started", slog.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("dataset refresher stopped")
			return nil
		case <-ticker.C:
			// errors are logged and kept in Status
			_, _ = r.RefreshOnce(ctx)
		}
	}
}

// Status returns a copy of the refresh status.
func (r *Refresher) Status() RefreshStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}
