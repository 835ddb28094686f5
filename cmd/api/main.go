package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/adapter/repo"
	httpapi "github.com/CBGROWTHOPS/content-mvp-sub000/internal/http"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/http/handlers"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/queue"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := repo.EnsureSchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	jobs := repo.NewJobRepository(dbpool)
	assets := repo.NewAssetRepository(dbpool)
	jobQueue := queue.NewPG(dbpool, cfg.MaxJobAttempts, cfg.RetryBackoffBase, cfg.QueueClaimTimeout)

	app := handlers.NewApp(jobs, assets, jobQueue, logger)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
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
