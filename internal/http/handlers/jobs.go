package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

type jobResponse struct {
	ID           string              `json:"id"`
	Status       domain.JobStatus    `json:"status"`
	Brand        string              `json:"brand"`
	Format       domain.OutputFormat `json:"format"`
	Objective    string              `json:"objective"`
	HookType     string              `json:"hookType,omitempty"`
	Model        string              `json:"model,omitempty"`
	Cost         *float64            `json:"cost,omitempty"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func toJobResponse(job *domain.Job) jobResponse {
	return jobResponse{
		ID:           job.ID,
		Status:       job.Status,
		Brand:        job.Brand,
		Format:       job.Format,
		Objective:    job.Objective,
		HookType:     job.HookType,
		Model:        job.Model,
		Cost:         job.Cost,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

// CreateJob accepts a generation request, persists the job, and enqueues it.
// The response is the accepted job in its pending state; generation happens
// asynchronously in the worker.
func (a *App) CreateJob(w http.ResponseWriter, r *http.Request) {
	var input domain.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		a.jsonError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			a.jsonError(w, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
			return
		}
		a.jsonError(w, http.StatusBadRequest, "invalid request")
		return
	}

	payload, err := json.Marshal(input)
	if err != nil {
		a.jsonError(w, http.StatusInternalServerError, "encode payload")
		return
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusPending,
		Brand:     input.Brand,
		Format:    input.Format,
		Objective: input.Objective,
		HookType:  input.HookType,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Msg("api: create job failed")
		a.jsonError(w, http.StatusInternalServerError, "create job")
		return
	}
	if err := a.Queue.Enqueue(r.Context(), job.ID, input); err != nil {
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("api: enqueue failed")
		a.jsonError(w, http.StatusInternalServerError, "enqueue job")
		return
	}

	a.Logger.Info().
		Str("job_id", job.ID).
		Str("brand", input.Brand).
		Str("format", string(input.Format)).
		Msg("api: job accepted")
	a.json(w, http.StatusAccepted, toJobResponse(job))
}

// GetJob returns the current state of one job.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.jsonError(w, http.StatusNotFound, "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("api: load job failed")
		a.jsonError(w, http.StatusInternalServerError, "load job")
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}
