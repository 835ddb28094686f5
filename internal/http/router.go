package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/http/handlers"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/middleware"
)

func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer, chimw.Logger)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Post("/", app.CreateJob)
		r.Get("/{jobID}", app.GetJob)
		r.Get("/{jobID}/assets", app.ListAssets)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
