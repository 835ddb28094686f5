package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/adapter/repo"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/brand"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/brief"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/catalog"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/compose"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/manifest"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/provider"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/queue"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/storage"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/template"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to ensure schema")
	}

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	doc, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to load manifest")
	}
	brands := brand.NewRegistry(doc.Brands)
	templates := template.NewResolver(doc.Templates, brands)
	models := catalog.NewCatalog(doc.Models)

	if cfg.ProviderAPIKey == "" {
		logger.Warn().Msg("worker: provider api key missing, calls will be rejected upstream")
	}
	client := provider.NewClient(provider.Options{
		APIKey:     cfg.ProviderAPIKey,
		BaseURL:    cfg.ProviderBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.ProviderTimeout},
		Logger:     &logger,
	})
	invoker := provider.NewInvoker(client)

	compositor := compose.NewCompositor(compose.Config{
		FFmpegBin:   cfg.FFmpegBin,
		WorkDir:     filepath.Join(storagePath, "work"),
		Preview:     cfg.ComposePreviewMode,
		DebugFrames: cfg.ComposeDebugFrames,
	}, logger)

	pipeline := worker.NewPool(worker.Deps{
		Jobs:       repo.NewJobRepository(pool),
		Assets:     repo.NewAssetRepository(pool),
		Queue:      queue.NewPG(pool, cfg.MaxJobAttempts, cfg.RetryBackoffBase, cfg.QueueClaimTimeout),
		Store:      fileStore,
		Brands:     brands,
		Templates:  templates,
		Models:     models,
		Invoker:    invoker,
		Briefs:     brief.NewPresetProducer(),
		Compositor: compositor,
		Logger:     logger,
	}, worker.Options{
		Concurrency:  cfg.WorkerConcurrency,
		PollInterval: cfg.JobPollInterval,
	})

	if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
