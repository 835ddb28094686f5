package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
)

type stubJobs struct {
	mu      sync.Mutex
	jobs    map[string]*domain.Job
	created int
}

func newStubJobs() *stubJobs { return &stubJobs{jobs: map[string]*domain.Job{}} }

func (s *stubJobs) Create(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	s.created++
	return nil
}

func (s *stubJobs) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus, errMsg *string) error {
	return nil
}

func (s *stubJobs) SetModel(ctx context.Context, jobID, model string) error { return nil }

func (s *stubJobs) SetCost(ctx context.Context, jobID string, cost float64) error { return nil }

func (s *stubJobs) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

type stubAssets struct {
	byJob map[string][]domain.Asset
}

func (s *stubAssets) ListByJobID(ctx context.Context, jobID string) ([]domain.Asset, error) {
	return s.byJob[jobID], nil
}

func (s *stubAssets) SaveAll(ctx context.Context, jobID string, assets []domain.Asset) error {
	return nil
}

type stubQueue struct {
	mu       sync.Mutex
	enqueued []string
}

func (s *stubQueue) Enqueue(ctx context.Context, jobID string, payload domain.JobInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued = append(s.enqueued, jobID)
	return nil
}

func (s *stubQueue) Claim(ctx context.Context) (*domain.QueueMessage, error) {
	return nil, domain.ErrNoJobAvailable
}

func (s *stubQueue) Release(ctx context.Context, jobID string, lastErr string) (bool, error) {
	return false, nil
}

func (s *stubQueue) Ack(ctx context.Context, jobID string) error { return nil }

func newTestApp() (*App, *stubJobs, *stubQueue, *stubAssets) {
	jobs := newStubJobs()
	queue := &stubQueue{}
	assets := &stubAssets{byJob: map[string][]domain.Asset{}}
	app := NewApp(jobs, assets, queue, infra.Logger(zerolog.Nop()))
	return app, jobs, queue, assets
}

func testRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/jobs", app.CreateJob)
	r.Get("/v1/jobs/{jobID}", app.GetJob)
	r.Get("/v1/jobs/{jobID}/assets", app.ListAssets)
	return r
}

func TestCreateJobAccepted(t *testing.T) {
	app, jobs, queue, _ := newTestApp()
	router := testRouter(app)

	body := `{"brand": "liftline", "format": "image_kit", "objective": "build trust"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp jobResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Error("response missing job id")
	}
	if resp.Status != domain.JobStatusPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}
	if jobs.created != 1 {
		t.Errorf("jobs created = %d", jobs.created)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != resp.ID {
		t.Errorf("enqueued = %v, want the new job id", queue.enqueued)
	}
}

func TestCreateJobValidation(t *testing.T) {
	app, jobs, queue, _ := newTestApp()
	router := testRouter(app)

	cases := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing brand", `{"format": "image_kit", "objective": "x"}`},
		{"missing objective", `{"brand": "liftline", "format": "image_kit"}`},
		{"bad format", `{"brand": "liftline", "format": "carousel", "objective": "x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if jobs.created != 0 || len(queue.enqueued) != 0 {
		t.Error("invalid requests must not create or enqueue jobs")
	}
}

func TestGetJob(t *testing.T) {
	app, jobs, _, _ := newTestApp()
	router := testRouter(app)

	_ = jobs.Create(context.Background(), &domain.Job{
		ID: "job-1", Status: domain.JobStatusCompleted, Brand: "liftline", Format: domain.FormatImageKit,
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp jobResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Status != domain.JobStatusCompleted {
		t.Errorf("status = %s", resp.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/jobs/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListAssets(t *testing.T) {
	app, jobs, _, assets := newTestApp()
	router := testRouter(app)

	_ = jobs.Create(context.Background(), &domain.Job{ID: "job-1", Status: domain.JobStatusCompleted})
	assets.byJob["job-1"] = []domain.Asset{
		{ID: "a1", JobID: "job-1", Kind: domain.AssetKindVideo, URL: "https://assets.local/a.mp4", DurationSeconds: 9},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/assets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		JobID  string          `json:"jobId"`
		Assets []assetResponse `json:"assets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Assets) != 1 || resp.Assets[0].Kind != domain.AssetKindVideo {
		t.Errorf("assets = %+v", resp.Assets)
	}

	// Pending job with no assets: empty list, not an error.
	_ = jobs.Create(context.Background(), &domain.Job{ID: "job-2", Status: domain.JobStatusPending})
	req = httptest.NewRequest(http.MethodGet, "/v1/jobs/job-2/assets", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for empty asset list", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/jobs/missing/assets", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown job", rec.Code)
	}
}
