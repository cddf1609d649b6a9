package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	promclient "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"gradesdash/internal/charts"
	"gradesdash/internal/config"
	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/grades"
	"gradesdash/internal/infrastructure"
	customMiddleware "gradesdash/internal/middleware"
	"gradesdash/internal/security"
	"gradesdash/internal/services"
	handlers "gradesdash/internal/transport/http"
	ws "gradesdash/internal/websocket"
)

// compressLevel is the gzip level used for HTML and SVG responses.
const compressLevel = 5

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Store         *grades.Store
	WebSocketHub  *ws.Hub
	Refresher     *services.Refresher
	Services      *ServiceContainer

	errorHandler *apierrors.ErrorHandler
	signer       *security.Signer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// Options customises New. The zero value builds everything from the
// configuration.
type Options struct {
	// Source replaces the configured data source.
	Source grades.Source
	// Registry receives the Prometheus collectors. Nil uses the default
	// registerer.
	Registry *promclient.Registry
}

// NewApplication loads the configuration and logger and builds the
// application from them.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger, Options{})
}

// New wires the application. The first dataset load must succeed; a
// dashboard without data has nothing to serve.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.Version),
		slog.String("commit", config.Commit))

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.Registry = opts.Registry
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if providers.Meter != nil {
		if app.Metrics, err = infrastructure.CreateBusinessMetrics(providers.Meter); err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
	}

	if err := app.initializeServices(ctx, opts.Source); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the data pipeline and the services on top of it
func (a *Application) initializeServices(ctx context.Context, source grades.Source) error {
	if source == nil {
		var err error
		if source, err = a.buildSource(ctx); err != nil {
			return err
		}
	}

	levels := a.Config.Data.Levels
	if len(levels) == 0 {
		levels = grades.DefaultLevels
	}
	var loadOpts grades.LoadOptions
	if a.Config.Data.BackfillYears {
		loadOpts.BackfillLevels = levels
	}

	a.WebSocketHub = ws.NewHub(a.Logger, a.Metrics)
	a.Store = grades.NewStore(nil)
	a.Refresher = services.NewRefresher(source, a.Store, loadOpts, a.Config.Data.RefreshInterval,
		a.WebSocketHub, a.Metrics, a.Logger)

	if _, err := a.Refresher.RefreshOnce(ctx); err != nil {
		return fmt.Errorf("initial dataset load from %s: %w", source.Name(), err)
	}

	secret := a.Config.Auth.SecretKey
	if secret == "" {
		// Cookies signed with a per-process key only survive until restart.
		secret = uuid.NewString()
		a.Logger.WarnContext(ctx, "No secret key configured, using an ephemeral cookie key")
	}
	signer, err := security.NewSigner(secret)
	if err != nil {
		return fmt.Errorf("failed to create cookie signer: %w", err)
	}
	a.signer = signer

	a.Services = &ServiceContainer{
		Dashboard: services.NewDashboardService(a.Store, levels, charts.NewRenderer(0, 0), a.Metrics, a.Logger),
		Health: services.NewHealthService(
			services.BuildInfo{Version: config.Version, Commit: config.Commit, BuildTime: config.BuildTime},
			a.Store, a.WebSocketHub, a.Refresher, a.Logger),
	}
	return nil
}

// buildSource selects the Google Sheets source when a spreadsheet is
// configured and a file or URL source otherwise.
func (a *Application) buildSource(ctx context.Context) (grades.Source, error) {
	if a.Config.UsesSheets() {
		sheetsCfg := a.Config.Data.Sheets
		src, err := grades.NewSheetsSource(ctx, grades.SheetsOptions{
			SpreadsheetID:   sheetsCfg.SpreadsheetID,
			Range:           sheetsCfg.Range,
			CredentialsFile: sheetsCfg.CredentialsFile,
			APIKey:          sheetsCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets source: %w", err)
		}
		return src, nil
	}
	return grades.NewSource(a.Config.Data.Source, a.Config.Data.FetchTimeout), nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	cfg := a.Config
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))

	secureHeaders := customMiddleware.DefaultSecureHeaders()
	secureHeaders.DevMode = cfg.Logging.Development
	r.Use(secureHeaders.Handler)

	if cfg.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if cfg.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			cfg.Security.RateLimit.RPS,
			cfg.Security.RateLimit.Burst,
			a.Logger,
			a.errorHandler,
		).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	// Probes and metrics stay reachable without credentials.
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/api/health", health.HealthCheck)
		r.Get("/api/health/ready", health.ReadinessCheck)
		r.Get("/api/health/live", health.LivenessCheck)
		r.Get("/api/version", health.Version)
	})
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	languages := handlers.NewLanguageResolver(a.signer)
	validator := customMiddleware.NewValidator()
	dashboard := handlers.NewDashboardHandler(a.Services.Dashboard, languages, validator, a.Logger, a.errorHandler)
	export := handlers.NewExportHandler(a.Services.Dashboard, languages, validator, a.Logger, a.errorHandler)
	page := handlers.NewPageHandler(a.Services.Dashboard, languages, a.Logger, a.errorHandler)
	wsHandler := ws.NewHandler(a.WebSocketHub, cfg.WebSocket, cfg.Security.AllowedOrigins, a.Logger, a.errorHandler)

	r.Group(func(r chi.Router) {
		if cfg.Auth.Enabled {
			auth := customMiddleware.NewBasicAuth(cfg.Auth.Realm, customMiddleware.StaticCredentials{
				Username: cfg.Auth.Username,
				Password: cfg.Auth.Password,
			}, a.Logger, a.errorHandler, a.Metrics)
			r.Use(auth.Handler)
		}

		// The upgrade must not be wrapped by the timeout or compression writers.
		r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(cfg.Server.RequestTimeout, a.Logger))

			r.With(customMiddleware.Compress(compressLevel, "text/html")).Get("/", page.ServePage)
			r.With(customMiddleware.Compress(compressLevel, "image/svg+xml")).Mount("/charts", dashboard.ChartRoutes())
			r.Mount("/api/dashboard", dashboard.Routes())
			r.With(render.SetContentType(render.ContentTypeJSON)).Get("/api/stats", health.Stats)
			r.With(customMiddleware.AuditLog(a.Logger)).Mount("/export", export.Routes())
		})
	})

	a.Router = r
}

// getCORSConfig limits cross-origin access to the configured origins
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start serves HTTP and runs the hub and the refresher until ctx is done
// or one of them fails, then shuts down gracefully.
func (a *Application) Start(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.Bool("auth", a.Config.Auth.Enabled),
		slog.Duration("refresh_interval", a.Config.Data.RefreshInterval))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.WebSocketHub.Run(gctx)
	})
	g.Go(func() error {
		return a.Refresher.Run(gctx)
	})
	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Listening", slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Error shutting down OpenTelemetry")
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err := a.Start(ctx)
	a.Logger.Info("Application stopped", slog.Duration("uptime", time.Since(start)))
	return err
}
