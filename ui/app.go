// Package ui exposes the converter over HTTP: a chi router with stateless
// JSON endpoints. Every request carries its table in the body; nothing is
// stored between calls.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gotidy/internal"
	"gotidy/internal/config"
	"gotidy/internal/profiling"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	cfg      *config.Config
	profiler *profiling.Profiler
}

// NewApp creates the HTTP application from loaded configuration
func NewApp(cfg *config.Config) *App {
	app := &App{
		router:   chi.NewRouter(),
		cfg:      cfg,
		profiler: profiling.NewProfiler(cfg.Profiling.Workers),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Get("/api/strategies", a.handleStrategies)

	a.router.Post("/api/analyze", a.handleAnalyze)
	a.router.Post("/api/convert", a.handleConvert)
	a.router.Post("/api/profile", a.handleProfile)
	a.router.Post("/api/quality", a.handleQuality)
	a.router.Post("/api/clean", a.handleClean)
	a.router.Post("/api/report", a.handleReport)
}

// Router exposes the configured router for serving and for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Run starts the HTTP server
func (a *App) Run() error {
	addr := ":" + a.cfg.Server.Port
	internal.DefaultLogger.Info("Starting tidy converter API on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
