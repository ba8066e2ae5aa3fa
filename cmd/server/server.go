package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rahul4469/securelink/internal/config"
	"github.com/rahul4469/securelink/internal/controllers"
	"github.com/rahul4469/securelink/internal/middleware"
	"github.com/rahul4469/securelink/internal/services"
	"github.com/rahul4469/securelink/internal/views"
	"github.com/rahul4469/securelink/templates"
)

const shutdownTimeout = 20 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides SERVER_ADDRESS)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if listenAddr != "" {
		cfg.Server.Address = listenAddr
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := newRouter(cfg, logger, reg)
	if err != nil {
		return err
	}

	if !cfg.Provider.HasAPIKey() {
		logger.Warn("OPENROUTER_API_KEY is not set; analysis requests will fail until it is configured")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return run(cmd.Context(), srv)
}

// run serves until the process is signalled, then drains in-flight requests.
func run(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newRouter wires services, controllers and routes.
func newRouter(cfg *config.Config, logger *zap.Logger, reg *prometheus.Registry) (http.Handler, error) {
	// Setup Services ---------------
	metrics := services.NewMetrics(reg)
	client := services.NewOpenRouterClient(cfg.Provider)
	analyzer := services.NewURLAnalyzer(client, logger, metrics)

	// Setup Controllers ---------------
	homeTpl, err := views.ParseFS(templates.FS, logger, "pages/home.gohtml")
	if err != nil {
		return nil, err
	}

	staticC := controllers.NewStaticController(controllers.StaticTemplates{Home: homeTpl}, cfg.IsDevelopment())
	analyzeC := controllers.NewAnalyzeController(
		analyzer,
		metrics,
		logger,
		controllers.AnalyzeTemplates{Home: homeTpl},
		cfg.IsDevelopment(),
	)

	// CSRF middleware
	csrfMw := csrf.Protect(
		[]byte(cfg.Security.CSRFKey),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
		csrf.TrustedOrigins(cfg.Security.CSRFTrustedOrigins),
	)

	// Setup router and routes
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	// ---- Operational Routes ----
	r.Get("/healthz", controllers.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// ---- JSON API ----
	r.Route("/api", func(r chi.Router) {
		r.Get("/analyze-url", analyzeC.GetAnalyzeURL)
		r.Post("/analyze-url", analyzeC.PostAnalyzeURL)
	})

	// ---- Pages ----
	r.Group(func(r chi.Router) {
		if !cfg.Security.SecureCookies {
			r.Use(middleware.PlaintextCSRF)
		}
		r.Use(csrfMw)

		r.Get("/", staticC.GetHome)
		r.Post("/analyze", analyzeC.PostAnalyze)
	})

	return r, nil
}
