package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

type assetResponse struct {
	ID              string           `json:"id"`
	Kind            domain.AssetKind `json:"kind"`
	URL             string           `json:"url"`
	DurationSeconds float64          `json:"durationSeconds,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// ListAssets returns the assets produced for a job. A pending job has none;
// that is an empty list, not an error.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if _, err := a.Jobs.GetByID(r.Context(), jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.jsonError(w, http.StatusNotFound, "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("api: load job failed")
		a.jsonError(w, http.StatusInternalServerError, "load job")
		return
	}

	assets, err := a.Assets.ListByJobID(r.Context(), jobID)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("api: list assets failed")
		a.jsonError(w, http.StatusInternalServerError, "list assets")
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, asset := range assets {
		out = append(out, assetResponse{
			ID:              asset.ID,
			Kind:            asset.Kind,
			URL:             asset.URL,
			DurationSeconds: asset.DurationSeconds,
			CreatedAt:       asset.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"jobId": jobID, "assets": out})
}
