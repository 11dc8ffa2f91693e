package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/securecorp/honeypot/config"
	"github.com/securecorp/honeypot/controllers"
	"github.com/securecorp/honeypot/database"
	"github.com/securecorp/honeypot/ingest"
	"github.com/securecorp/honeypot/logger"
	authmiddleware "github.com/securecorp/honeypot/middleware"
	"github.com/securecorp/honeypot/ratelimit"
	"github.com/securecorp/honeypot/repositories"
	"github.com/securecorp/honeypot/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("service exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.Initialize(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos := repositories.NewRepositories(db)

	pipeline := ingest.New(repos, log, cfg.IngestBuffer)

	srvs := services.NewServices(repos, pipeline, log)
	ctrl := controllers.NewControllers(srvs, log)

	router, err := setupRouter(cfg, log, db, pipeline, ctrl)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("honeypot listening",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Env),
			zap.String("database", cfg.DBPath),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		pipeline.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)

	// Drain queued capture writes before the database closes
	pipeline.Close()

	if shutdownErr != nil && !errors.Is(shutdownErr, http.ErrServerClosed) {
		return shutdownErr
	}
	return nil
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, log *zap.Logger, db *sql.DB, pipeline *ingest.Pipeline, ctrl *controllers.Controllers) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))

	// Session middleware. The cookie is the opaque session transport for
	// the admin console: httpOnly by default, secure in production.
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "sessionId",
		Secure:         cfg.UseHTTPS || cfg.IsProduction(),
		Gclifetime:     cfg.SessionLifetime,
		Maxlifetime:    cfg.SessionLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// The watcher runs before any route handler so probes against
	// unmapped paths still land in the request log.
	r.Use(authmiddleware.RequestLogger(pipeline))

	loginLimiter := ratelimit.New(cfg.LoginRateMax, cfg.LoginRateWindow)
	adminLimiter := ratelimit.New(cfg.AdminRateMax, cfg.AdminRateWindow)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	// The trap
	r.Get("/", ctrl.Public.Index)
	r.With(authmiddleware.RateLimit(loginLimiter, "Too many login attempts. Please try again later.", log)).
		Post("/login", ctrl.Public.Login)

	// The gate
	r.Get("/admin2430.html", ctrl.Admin.PinPage)
	r.With(authmiddleware.RateLimit(adminLimiter, "Too many admin access attempts. Try again later.", log)).
		Post("/admin2430.html", ctrl.Admin.SubmitPin)
	r.Post("/admin2430.html/logout", ctrl.Admin.Logout)

	// The console
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAdmin)

		r.Get("/admin2430.html/dashboard", ctrl.Admin.Dashboard)
		r.Get("/admin2430.html/api/stats", ctrl.Admin.APIStats)
		r.Get("/admin2430.html/api/recent", ctrl.Admin.APIRecent)
	})

	r.Get("/health", healthHandler(cfg, db))

	return r, nil
}

// healthHandler reports service and database status. Excluded from request
// logging to keep monitoring noise out of the capture data.
func healthHandler(cfg *config.Config, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		status := http.StatusOK
		statusText := "ok"
		dbStatus := "connected"
		if err := db.PingContext(r.Context()); err != nil {
			status = http.StatusInternalServerError
			statusText = "error"
			dbStatus = "disconnected"
		}

		w.WriteHeader(status)
		fmt.Fprintf(w, `{"status":%q,"database":%q,"timestamp":%q,"environment":%q}`,
			statusText,
			dbStatus,
			time.Now().UTC().Format(time.RFC3339),
			cfg.Env,
		)
	}
}
