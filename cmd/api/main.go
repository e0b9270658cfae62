package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"merchmagic/internal/adapter/repo"
	"merchmagic/internal/domain"
	"merchmagic/internal/http/handlers"
	httpapi "merchmagic/internal/http/httpapi"
	"merchmagic/internal/infra"
	"merchmagic/internal/infra/credentials"
	"merchmagic/internal/metrics"
	"merchmagic/internal/providers/gemini"
	"merchmagic/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	// Postgres is optional: it backs the stored API key and the audit trail.
	var (
		creds    *credentials.Store
		recorder session.Recorder
		stats    handlers.StatsSource
	)
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		runner := infra.NewSQLRunner(dbpool, logger)
		creds = credentials.NewStore(runner)
		audit := repo.NewGenerationRepository(runner)
		recorder, stats = audit, audit
	}

	apiKey, err := credentials.ResolveGeminiAPIKey(ctx, cfg.GeminiAPIKey, creds)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read stored gemini api key")
	}

	// A missing or broken client disables generation but keeps the service up.
	var generator session.Generator
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:     apiKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{},
		Logger:     &logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg(domain.MessageInitFailed)
	} else {
		generator = client
	}

	var store session.Store
	switch cfg.SessionStore {
	case infra.SessionStoreRedis:
		rs := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, session.WithTTL(cfg.SessionTTL))
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rs.Ping(pingCtx); err != nil {
			cancel()
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect redis")
		}
		cancel()
		defer rs.Close()
		store = rs
	default:
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	m := metrics.New()
	coordinator := session.NewCoordinator(session.Deps{
		Store:     store,
		Generator: generator,
		Recorder:  recorder,
		Observer:  m,
		Logger:    &logger,
	})

	app := handlers.NewApp(coordinator, stats, cfg.GeminiModel, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		Metrics:         m,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("session_store", cfg.SessionStore).
			Bool("ai_available", coordinator.Available()).
			Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
