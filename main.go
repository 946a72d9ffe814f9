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

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/blogem/site-intake/config"
	"github.com/blogem/site-intake/controllers"
	"github.com/blogem/site-intake/csrf"
	"github.com/blogem/site-intake/database"
	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/metrics"
	accessmiddleware "github.com/blogem/site-intake/middleware"
	"github.com/blogem/site-intake/repositories"
	"github.com/blogem/site-intake/response"
	"github.com/blogem/site-intake/services"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	diag, err := diaglog.New(cfg.Diagnostics.LogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Diagnostics.LogPath).Msg("failed to open diagnostic log")
	}
	defer diag.Close()

	ctx := context.Background()

	// Initialize repositories. A store that cannot be reached or migrated
	// leaves the access recorder disabled and makes intake fail with 500.
	repos := openRepositories(ctx, cfg, logger)

	tokens, err := newTokenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Tokens.Backend).Msg("failed to initialize token store")
	}

	m := metrics.New()

	// Initialize services
	srvs := services.NewServices(repos, tokens, diag, m, services.StatsOptions{
		DefaultDays: cfg.Stats.DefaultDays,
		Location:    cfg.Stats.Location(),
	})

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, controllers.SessionID, cfg.Stats.DefaultDays, diag)

	// Set up router
	r, err := setupRouter(cfg, srvs, ctrl, m)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Server.Port).
			Str("database", cfg.Database.Path).
			Str("stats_timezone", cfg.Stats.Timezone).
			Bool("access_recording", srvs.Access.Enabled()).
			Msg("site-intake starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("site-intake stopped")
}

// openRepositories opens the store and brings the schema up once.
func openRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *repositories.Repositories {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Database.Path).Msg("database unavailable, access recording disabled")
		repos := repositories.NewRepositories(database.Unavailable{})
		repos.AccessLog = nil
		return repos
	}

	repos := repositories.NewRepositories(db)
	schema := database.NewSchema(db, logger)
	if !schema.Ensure(ctx) {
		logger.Error().Str("path", cfg.Database.Path).Msg("schema not ready, access recording disabled")
		repos.AccessLog = nil
	}
	return repos
}

func newTokenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (csrf.Store, error) {
	switch cfg.Tokens.Backend {
	case "redis":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		client, err := csrf.DialRedis(dialCtx, cfg.Tokens.RedisURL)
		if err != nil {
			return nil, err
		}
		return csrf.NewRedisStore(client, cfg.Tokens.TTL, logger), nil
	case "memory":
		return csrf.NewMemoryStore(cfg.Tokens.TTL), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", cfg.Tokens.Backend)
	}
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, srvs *services.Services, ctrl *controllers.Controllers, m *metrics.Metrics) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	// Outside Recoverer so a panicking request is still recorded with its 500
	r.Use(accessmiddleware.AccessRecorder(srvs.Access, cfg.Access.SkipPaths))
	r.Use(middleware.Recoverer)

	// Session middleware binds replay tokens to a visitor
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     cfg.Session.CookieName,
		Secure:         cfg.Server.UseHTTPS,
		Gclifetime:     cfg.Session.LifetimeSeconds,
		Maxlifetime:    cfg.Session.LifetimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Every method reaches the handler so non-POST gets the JSON 405
	r.HandleFunc("/contact", ctrl.Contact.Submit)
	r.Get("/contact/token", ctrl.Contact.Token)
	r.Get("/stats", ctrl.Stats.Index)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", m.Handler())

	return r, nil
}
