package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/grades"
	"gradesdash/internal/middleware"
	"gradesdash/internal/security"
	"gradesdash/internal/services"
	"gradesdash/internal/shared/testutil"
)

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Options(ctx context.Context, lang string) (services.Options, error) {
	args := m.Called(lang)
	return args.Get(0).(services.Options), args.Error(1)
}

func (m *MockDashboardService) SummaryRows(ctx context.Context, f services.Filter) (services.TableView, error) {
	args := m.Called(f)
	return args.Get(0).(services.TableView), args.Error(1)
}

func (m *MockDashboardService) StudentCard(ctx context.Context, student, lang string) (services.Card, error) {
	args := m.Called(student, lang)
	return args.Get(0).(services.Card), args.Error(1)
}

func (m *MockDashboardService) ExamRows(ctx context.Context, f services.Filter) (services.TableView, error) {
	args := m.Called(f)
	return args.Get(0).(services.TableView), args.Error(1)
}

func (m *MockDashboardService) SubjectChart(ctx context.Context, w io.Writer, f services.Filter) error {
	args := m.Called(w, f)
	return args.Error(0)
}

func (m *MockDashboardService) ExamChart(ctx context.Context, w io.Writer, f services.Filter) error {
	args := m.Called(w, f)
	return args.Error(0)
}

func (m *MockDashboardService) Dashboard(ctx context.Context, f services.Filter) (services.DashboardView, error) {
	args := m.Called(f)
	return args.Get(0).(services.DashboardView), args.Error(1)
}

func (m *MockDashboardService) ExportCSV(ctx context.Context, w io.Writer, f services.ExportFilter) error {
	args := m.Called(w, f)
	return args.Error(0)
}

func (m *MockDashboardService) ExportXLSX(ctx context.Context, w io.Writer, f services.ExportFilter) error {
	args := m.Called(w, f)
	return args.Error(0)
}

const testSecret = "test-secret"

func newTestResolver(t *testing.T) *LanguageResolver {
	t.Helper()
	signer, err := security.NewSigner(testSecret)
	require.NoError(t, err)
	return NewLanguageResolver(signer)
}

func newTestDashboardHandler(t *testing.T, svc DashboardService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewDashboardHandler(svc, newTestResolver(t), middleware.NewValidator(), logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/dashboard", h.Routes())
	r.Mount("/charts", h.ChartRoutes())
	return r
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	view := services.TableView{
		Name:    "Summary",
		Headers: []string{"Student", "Image URL", "Grade", "Math", "Average"},
		Rows:    [][]string{{"Ana", "", "1st", "10", "10"}},
	}

	tests := []struct {
		name           string
		target         string
		header         map[string]string
		setupMock      func(*MockDashboardService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "explicit filter",
			target: "/api/dashboard/summary?student=Ana&year=1st&lang=es",
			setupMock: func(m *MockDashboardService) {
				m.On("SummaryRows", services.Filter{Student: "Ana", Year: "1st", Lang: "es"}).Return(view, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "language from accept header",
			target: "/api/dashboard/summary?student=Ana",
			header: map[string]string{"Accept-Language": "es-VE,es;q=0.9"},
			setupMock: func(m *MockDashboardService) {
				m.On("SummaryRows", services.Filter{Student: "Ana", Lang: "es"}).Return(view, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unsupported language",
			target:         "/api/dashboard/summary?lang=fr",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeValidationFailed,
		},
		{
			name:           "control characters",
			target:         "/api/dashboard/summary?student=%01Ana",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeValidationFailed,
		},
		{
			name:   "unknown student",
			target: "/api/dashboard/summary?student=Bob",
			setupMock: func(m *MockDashboardService) {
				m.On("SummaryRows", mock.Anything).Return(services.TableView{},
					&services.LookupError{Err: services.ErrStudentNotFound, Value: "Bob"})
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   CodeStudentNotFound,
		},
		{
			name:   "no dataset",
			target: "/api/dashboard/summary",
			setupMock: func(m *MockDashboardService) {
				m.On("SummaryRows", mock.Anything).Return(services.TableView{}, services.ErrNoDataset)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   CodeNoDataset,
		},
		{
			name:   "internal error",
			target: "/api/dashboard/summary",
			setupMock: func(m *MockDashboardService) {
				m.On("SummaryRows", mock.Anything).Return(services.TableView{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)
			handler := newTestDashboardHandler(t, svc)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeJSON(t, rec)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "Summary", body["name"])
			} else {
				assert.Equal(t, float64(tt.expectedStatus), body["status"])
				if tt.expectedCode != "" {
					assert.Equal(t, tt.expectedCode, body["error_code"])
				}
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_NotFoundDetailNamesValue(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("ExamRows", mock.Anything).Return(services.TableView{},
		&services.LookupError{Err: services.ErrSubjectNotFound, Value: "Music"})
	handler := newTestDashboardHandler(t, svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/exams?subject=Music", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, `subject "Music" not found`, body["detail"])
	assert.Equal(t, apierrors.TypeNotFound, body["type"])
}

func TestDashboardHandler_GetCardAndOptions(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("StudentCard", "Ana", "en").Return(services.Card{Student: "Ana", Average: grades.Of(10), Label: "Average: 10"}, nil)
	svc.On("Options", "es").Return(services.Options{Students: []services.Option{{Value: "Ana", Label: "Ana"}}}, nil)
	handler := newTestDashboardHandler(t, svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/card?student=Ana", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, float64(10), body["average"])
	assert.Equal(t, "Average: 10", body["label"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/options?lang=es", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"students":[{"value":"Ana","label":"Ana"}]`)

	svc.AssertExpectations(t)
}

func TestDashboardHandler_LanguageCookie(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("ExamRows", services.Filter{Lang: "es"}).Return(services.TableView{Name: "Math"}, nil).Twice()
	handler := newTestDashboardHandler(t, svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/exams?lang=es", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, security.LanguageCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/exams", nil)
	req.Header.Set("Accept-Language", "en")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "cookie is only rewritten when the language changes")

	svc.AssertExpectations(t)
}

func TestDashboardHandler_Charts(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("SubjectChart", mock.Anything, services.Filter{Student: "Ana", Year: "1st", Lang: "en"}).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(0).(io.Writer), "<svg></svg>")
		}).Return(nil)
	svc.On("ExamChart", mock.Anything, mock.Anything).
		Return(&services.LookupError{Err: services.ErrYearNotFound, Value: "9th"})
	handler := newTestDashboardHandler(t, svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/subjects.svg?student=Ana&year=1st", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<svg></svg>", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/exams.svg?year=9th", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeYearNotFound, decodeJSON(t, rec)["error_code"])

	svc.AssertExpectations(t)
}
