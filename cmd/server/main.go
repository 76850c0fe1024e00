package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockit/analyzer/internal/cache"
	"github.com/stockit/analyzer/internal/config"
	"github.com/stockit/analyzer/internal/database"
	"github.com/stockit/analyzer/internal/modules/analysis"
	"github.com/stockit/analyzer/internal/modules/recommend"
	"github.com/stockit/analyzer/internal/modules/scoring"
	"github.com/stockit/analyzer/internal/modules/universe"
	"github.com/stockit/analyzer/internal/refdata"
	"github.com/stockit/analyzer/internal/scheduler"
	"github.com/stockit/analyzer/internal/server"
	"github.com/stockit/analyzer/pkg/logger"
)

func main() {
	// Load configuration first so the log level applies from the start
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting stock style analyzer")

	ctx := context.Background()

	// Fetch reference artifacts from S3 when a bucket is configured,
	// then load them. Malformed or missing artifacts are fatal: every
	// downstream computation depends on them.
	if cfg.ArtifactsS3Bucket != "" {
		if err := refdata.FetchArtifacts(ctx, cfg.ArtifactsS3Bucket, cfg.ArtifactsS3Prefix, cfg.ArtifactsDir, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to fetch reference artifacts")
		}
	}
	ref, err := refdata.Load(cfg.ArtifactsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load reference artifacts")
	}
	log.Info().Int("personas", len(ref.Personas().All())).Msg("Reference artifacts loaded")

	// Universe database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	uni := universe.NewService(universe.NewRepository(db.Conn(), log), log)
	if err := uni.Refresh(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load universe snapshot")
	}

	// Redis cache. Unreachable redis is not fatal: the pipeline computes
	// directly and retries the backend on every call.
	backend := cache.NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer backend.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := backend.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, serving without cache hits")
	}
	cancelPing()

	cacheLayer := cache.New(backend, cfg.AnalysisCacheTTL, cfg.TextCacheTTL, log)

	// Pipeline services
	analysisSvc := analysis.NewService(ref, uni, log)
	scorer := scoring.NewCachedScorer(scoring.NewScorer(ref), cacheLayer, log)
	recommendSvc := recommend.NewService(ref, uni, scorer, log)

	// Background refresh of the universe snapshot
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.UniverseRefreshCron, universe.NewRefreshJob(uni)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register universe refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		DevMode:   cfg.DevMode,
		Ref:       ref,
		Universe:  uni,
		Analysis:  analysisSvc,
		Scorer:    scorer,
		Recommend: recommendSvc,
		Cache:     cacheLayer,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
