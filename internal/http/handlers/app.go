// Package handlers exposes the thin REST surface over the pipeline: enqueue
// a job, read its status, and list its assets. All real work happens in the
// worker; these handlers are glue.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
)

// App bundles the handler dependencies.
type App struct {
	Jobs     domain.JobRepository
	Assets   domain.AssetRepository
	Queue    domain.JobQueue
	Logger   infra.Logger
	validate *validator.Validate
}

// NewApp constructs the handler set.
func NewApp(jobs domain.JobRepository, assets domain.AssetRepository, queue domain.JobQueue, logger infra.Logger) *App {
	return &App{
		Jobs:     jobs,
		Assets:   assets,
		Queue:    queue,
		Logger:   logger,
		validate: validator.New(),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) jsonError(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
