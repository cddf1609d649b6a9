package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	ws "gradesdash/internal/websocket"
)

// HubStatsProvider exposes the websocket hub counters.
type HubStatsProvider interface {
	Stats() ws.HubStats
}

// RefreshStatusProvider exposes the refresher state.
type RefreshStatusProvider interface {
	Status() RefreshStatus
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// HealthService provides health check functionality
type HealthService struct {
	build     BuildInfo
	store     DatasetProvider
	hub       HubStatsProvider
	refresher RefreshStatusProvider
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds    float64 `json:"uptime_seconds"`
	DatasetRows      int     `json:"dataset_rows"`
	DatasetSource    string  `json:"dataset_source"`
	WebSocketClients int     `json:"websocket_clients"`
	GoVersion        string  `json:"go_version"`
	OS               string  `json:"os"`
	Arch             string  `json:"arch"`
}

// NewHealthService creates a health service. hub and refresher may be nil.
func NewHealthService(build BuildInfo, store DatasetProvider, hub HubStatsProvider, refresher RefreshStatusProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", build.Version),
		slog.String("commit", build.Commit),
		slog.String("build_time", build.BuildTime))

	return &HealthService{
		build:     build,
		store:     store,
		hub:       hub,
		refresher: refresher,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.build.Version,
	}
}

// ReadinessCheck reports ready once a dataset is loaded.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.build.Version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dataset"] = hs.checkDatasetHealth()
	status.Services["websocket"] = hs.checkWebSocketHealth()
	status.Services["refresher"] = hs.checkRefresherHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.build.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":      hs.build.Version,
		"commit":       hs.build.Commit,
		"build_time":   hs.build.BuildTime,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) SystemStats {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
	if ds := hs.store.Current(); ds != nil {
		stats.DatasetRows = len(ds.Summaries)
		stats.DatasetSource = ds.Source
	}
	if hs.hub != nil {
		stats.WebSocketClients = hs.hub.Stats().ActiveClients
	}
	return stats
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	ds := hs.store.Current()
	if ds == nil || len(ds.Summaries) == 0 {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "no dataset loaded",
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d rows from %s", len(ds.Summaries), ds.Source),
		Uptime:  time.Since(ds.LoadedAt).Round(time.Second).String(),
	}
}

// checkWebSocketHealth checks WebSocket service health
func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "ready", Message: "live refresh disabled"}
	}
	stats := hs.hub.Stats()
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clients connected", stats.ActiveClients),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// checkRefresherHealth stays ready after a failed refresh; the previous
// dataset keeps being served.
func (hs *HealthService) checkRefresherHealth() ServiceHealth {
	if hs.refresher == nil {
		return ServiceHealth{Status: "ready", Message: "refresh disabled"}
	}
	st := hs.refresher.Status()
	if st.LastError != "" {
		return ServiceHealth{
			Status:  "ready",
			Message: "last refresh failed: " + st.LastError,
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d swaps", st.Swaps),
	}
}
