package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradesdash/internal/services"
	"gradesdash/internal/shared/testutil"
)

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func (m *MockHealthService) SystemStats(ctx context.Context) services.SystemStats {
	return m.Called().Get(0).(services.SystemStats)
}

func TestHealthHandler(t *testing.T) {
	now := time.Now()
	svc := new(MockHealthService)
	svc.On("HealthCheck").Return(services.HealthStatus{Status: "ok", Timestamp: now, Version: "1.0.0"})
	svc.On("LivenessCheck").Return(services.HealthStatus{Status: "alive", Timestamp: now})
	svc.On("Version").Return(map[string]interface{}{"version": "1.0.0"})
	svc.On("SystemStats").Return(services.SystemStats{DatasetRows: 3})

	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(svc, logger)

	tests := []struct {
		name         string
		handler      http.HandlerFunc
		expectedBody string
	}{
		{"health", h.HealthCheck, `"status":"ok"`},
		{"liveness", h.LivenessCheck, `"status":"alive"`},
		{"version", h.Version, `"version":"1.0.0"`},
		{"stats", h.Stats, `"dataset_rows":3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
	svc.AssertExpectations(t)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		expectedStatus int
	}{
		{"ready", "ready", http.StatusOK},
		{"not ready", "not_ready", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("ReadinessCheck").Return(services.HealthStatus{Status: tt.status})
			logger, _ := testutil.NewTestLogger(t)

			rec := httptest.NewRecorder()
			NewHealthHandler(svc, logger).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.status)
		})
	}
}
