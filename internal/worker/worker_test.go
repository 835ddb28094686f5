package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/brief"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/catalog"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/compose"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/manifest"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/provider"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/template"
)

// ---- in-memory fakes ----

type memJobs struct {
	mu      sync.Mutex
	jobs    map[string]*domain.Job
	history map[string][]domain.JobStatus
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[string]*domain.Job{}, history: map[string][]domain.JobStatus{}}
}

func (m *memJobs) Create(ctx context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *job
	m.jobs[job.ID] = &copied
	m.history[job.ID] = append(m.history[job.ID], job.Status)
	return nil
}

func (m *memJobs) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus, errMsg *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.Status = status
	if errMsg != nil {
		job.ErrorMessage = *errMsg
	}
	m.history[jobID] = append(m.history[jobID], status)
	return nil
}

func (m *memJobs) SetModel(ctx context.Context, jobID, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[jobID]; ok {
		job.Model = model
	}
	return nil
}

func (m *memJobs) SetCost(ctx context.Context, jobID string, cost float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[jobID]; ok {
		job.Cost = &cost
	}
	return nil
}

func (m *memJobs) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (m *memJobs) statuses(jobID string) []domain.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.JobStatus(nil), m.history[jobID]...)
}

type qitem struct {
	payload  domain.JobInput
	attempts int
	claimed  bool
}

type memQueue struct {
	mu          sync.Mutex
	order       []string
	items       map[string]*qitem
	maxAttempts int
}

func newMemQueue(maxAttempts int) *memQueue {
	return &memQueue{items: map[string]*qitem{}, maxAttempts: maxAttempts}
}

func (m *memQueue) Enqueue(ctx context.Context, jobID string, payload domain.JobInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[jobID]; ok {
		return nil
	}
	m.items[jobID] = &qitem{payload: payload}
	m.order = append(m.order, jobID)
	return nil
}

func (m *memQueue) Claim(ctx context.Context) (*domain.QueueMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		item, ok := m.items[id]
		if !ok || item.claimed {
			continue
		}
		item.claimed = true
		item.attempts++
		return &domain.QueueMessage{JobID: id, Payload: item.payload, Attempt: item.attempts}, nil
	}
	return nil, domain.ErrNoJobAvailable
}

func (m *memQueue) Release(ctx context.Context, jobID string, lastErr string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[jobID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if item.attempts >= m.maxAttempts {
		delete(m.items, jobID)
		return false, nil
	}
	item.claimed = false
	return true, nil
}

func (m *memQueue) Ack(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, jobID)
	return nil
}

func (m *memQueue) empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items) == 0
}

type memAssets struct {
	mu     sync.Mutex
	byJob  map[string][]domain.Asset
	writes int
}

func newMemAssets() *memAssets { return &memAssets{byJob: map[string][]domain.Asset{}} }

func (m *memAssets) ListByJobID(ctx context.Context, jobID string) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Asset(nil), m.byJob[jobID]...), nil
}

func (m *memAssets) SaveAll(ctx context.Context, jobID string, assets []domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byJob[jobID] = append(m.byJob[jobID], assets...)
	m.writes++
	return nil
}

type memStore struct {
	mu   sync.Mutex
	keys []string
}

func (m *memStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "https://assets.local/" + key, nil
}

type memBrands struct{ entries map[string]domain.BrandInfo }

func (m *memBrands) Lookup(key string) (domain.BrandInfo, bool) {
	info, ok := m.entries[key]
	return info, ok
}

// scriptInvoker pops one scripted outcome per call.
type scriptInvoker struct {
	mu      sync.Mutex
	results []invokeResult
	calls   int
}

type invokeResult struct {
	media domain.GeneratedMedia
	err   error
}

func (s *scriptInvoker) next() (domain.GeneratedMedia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.results) == 0 {
		return domain.GeneratedMedia{}, errors.New("scriptInvoker: no result scripted")
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.media, r.err
}

func (s *scriptInvoker) Invoke(ctx context.Context, model catalog.Model, prompt string, opts provider.InvokeOptions) (domain.GeneratedMedia, error) {
	return s.next()
}

func (s *scriptInvoker) InvokeImageToVideo(ctx context.Context, model catalog.Model, prompt string, opts provider.InvokeOptions) (domain.GeneratedMedia, error) {
	return s.next()
}

// stubRenderer writes a fake artifact per render. blankShots queues, per
// render, the shot ids to report as possibly blank; a nil entry is a clean
// render.
type stubRenderer struct {
	dir        string
	renders    int
	checked    []bool
	blankShots [][]string
}

func (r *stubRenderer) Render(ctx context.Context, jobID string, bp domain.Blueprint, media map[string]domain.ShotMedia, brandInfo domain.BrandInfo, checkFrames bool) (string, []compose.FrameReport, error) {
	r.renders++
	r.checked = append(r.checked, checkFrames)
	path := filepath.Join(r.dir, jobID+"-artifact.mp4")
	if err := os.WriteFile(path, []byte("rendered"), 0o644); err != nil {
		return "", nil, err
	}
	var frames []compose.FrameReport
	if checkFrames {
		var blank []string
		if len(r.blankShots) > 0 {
			blank = r.blankShots[0]
			r.blankShots = r.blankShots[1:]
		}
		for _, shot := range bp.Shots {
			report := compose.FrameReport{ShotID: shot.ShotID, Bytes: 90000}
			for _, id := range blank {
				if id == shot.ShotID {
					report.Bytes = 512
					report.PossiblyBlank = true
				}
			}
			frames = append(frames, report)
		}
	}
	return path, frames, nil
}

// ---- harness ----

type harness struct {
	pool    *Pool
	jobs    *memJobs
	assets  *memAssets
	queue   *memQueue
	store   *memStore
	invoker *scriptInvoker
	render  *stubRenderer
}

func newHarness(t *testing.T, maxAttempts int) *harness {
	t.Helper()
	brands := &memBrands{entries: map[string]domain.BrandInfo{
		"liftline": {Key: "liftline", Name: "LiftLine", Positioning: "Motorized recliners", PrimaryCTA: "Book a demo"},
	}}
	models := catalog.NewCatalog([]manifest.Model{
		{Key: "forge-image-1", Kind: "image", Formats: []string{"image_kit"}, DefaultFor: []string{"image_kit"}, CostPerCall: 0.04},
		{Key: "forge-motion-1", Kind: "video", Formats: []string{"motion_post"}, DefaultFor: []string{"motion_post"}, CostPerCall: 0.25},
		{Key: "forge-clip-xl", Kind: "video", Formats: []string{"spot_video"}, DefaultFor: []string{"spot_video"}, CostPerCall: 0.60},
	})

	h := &harness{
		jobs:    newMemJobs(),
		assets:  newMemAssets(),
		queue:   newMemQueue(maxAttempts),
		store:   &memStore{},
		invoker: &scriptInvoker{},
		render:  &stubRenderer{dir: t.TempDir()},
	}
	h.pool = NewPool(Deps{
		Jobs:       h.jobs,
		Assets:     h.assets,
		Queue:      h.queue,
		Store:      h.store,
		Brands:     brands,
		Templates:  template.NewResolver(nil, brands),
		Models:     models,
		Invoker:    h.invoker,
		Briefs:     brief.NewPresetProducer(),
		Compositor: h.render,
		Logger:     infra.Logger(zerolog.Nop()),
	}, Options{Concurrency: 1, PollInterval: time.Millisecond})
	return h
}

func (h *harness) submit(t *testing.T, id string, input domain.JobInput) {
	t.Helper()
	ctx := context.Background()
	job := &domain.Job{ID: id, Status: domain.JobStatusPending, Brand: input.Brand, Format: input.Format, Objective: input.Objective}
	if err := h.jobs.Create(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := h.queue.Enqueue(ctx, id, input); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

// drain claims and handles messages until the queue is empty.
func (h *harness) drain(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	logger := infra.Logger(zerolog.Nop())
	for i := 0; i < 1000; i++ {
		msg, err := h.queue.Claim(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoJobAvailable) {
				if h.queue.empty() {
					return
				}
				continue
			}
			t.Fatalf("claim: %v", err)
		}
		h.pool.handle(ctx, logger, msg)
	}
	t.Fatal("queue did not drain")
}

func assertMonotonic(t *testing.T, jobID string, history []domain.JobStatus) {
	t.Helper()
	if len(history) == 0 || history[0] != domain.JobStatusPending {
		t.Fatalf("job %s history must start pending: %v", jobID, history)
	}
	for i := 1; i < len(history); i++ {
		prev, next := history[i-1], history[i]
		if !prev.CanTransition(next) {
			t.Errorf("job %s: illegal transition %s -> %s in %v", jobID, prev, next, history)
		}
	}
}

// ---- tests ----

func imageInput() domain.JobInput {
	return domain.JobInput{
		Brand:     "liftline",
		Format:    domain.FormatImageKit,
		Objective: "build trust with installers",
	}
}

func TestImageJobCompletes(t *testing.T) {
	h := newHarness(t, 3)
	h.invoker.results = []invokeResult{{media: domain.GeneratedMedia{
		URL: "https://cdn.example.com/out.png", ContentType: "image/png", Cost: 0.04,
	}}}
	h.submit(t, "job-1", imageInput())

	h.drain(t)

	job, err := h.jobs.GetByID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %s, want completed (err: %s)", job.Status, job.ErrorMessage)
	}
	if job.Model != "forge-image-1" {
		t.Errorf("model = %q, want forge-image-1", job.Model)
	}
	if job.Cost == nil || *job.Cost != 0.04 {
		t.Errorf("cost = %v, want 0.04", job.Cost)
	}

	assets, _ := h.assets.ListByJobID(context.Background(), "job-1")
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(assets))
	}
	if assets[0].Kind != domain.AssetKindImage {
		t.Errorf("asset kind = %s, want image", assets[0].Kind)
	}
	if assets[0].URL != "https://cdn.example.com/out.png" {
		t.Errorf("asset url = %q", assets[0].URL)
	}

	assertMonotonic(t, "job-1", h.jobs.statuses("job-1"))
	if !h.queue.empty() {
		t.Error("completed job left a queue message behind")
	}
}

func TestRetryableFailureRequeuesThenSucceeds(t *testing.T) {
	h := newHarness(t, 3)
	h.invoker.results = []invokeResult{
		{err: domain.Retryable(errors.New("provider timeout"))},
		{media: domain.GeneratedMedia{URL: "https://cdn.example.com/out.png", ContentType: "image/png", Cost: 0.04}},
	}
	h.submit(t, "job-2", imageInput())

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-2")
	if job.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %s, want completed after retry", job.Status)
	}
	if h.invoker.calls != 2 {
		t.Errorf("invoker calls = %d, want 2", h.invoker.calls)
	}
	assertMonotonic(t, "job-2", h.jobs.statuses("job-2"))
}

func TestRetryableFailureExhaustsAttempts(t *testing.T) {
	h := newHarness(t, 3)
	h.invoker.results = []invokeResult{
		{err: domain.Retryable(errors.New("provider timeout"))},
		{err: domain.Retryable(errors.New("provider timeout"))},
		{err: domain.Retryable(errors.New("provider timeout"))},
	}
	h.submit(t, "job-3", imageInput())

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-3")
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %s, want failed after exhausted attempts", job.Status)
	}
	if job.ErrorMessage == "" {
		t.Error("failed job must record an error message")
	}
	if h.invoker.calls != 3 {
		t.Errorf("invoker calls = %d, want exactly max attempts", h.invoker.calls)
	}
	assertMonotonic(t, "job-3", h.jobs.statuses("job-3"))
}

func TestValidationFailureIsTerminalImmediately(t *testing.T) {
	h := newHarness(t, 3)
	h.invoker.results = []invokeResult{
		{err: domain.NonRetryable(errors.New("unrecognized provider response shape"))},
	}
	h.submit(t, "job-4", imageInput())

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-4")
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
	if h.invoker.calls != 1 {
		t.Errorf("invoker calls = %d, validation failures must not retry", h.invoker.calls)
	}
	if !strings.Contains(job.ErrorMessage, "unrecognized") {
		t.Errorf("error message = %q", job.ErrorMessage)
	}
}

func TestDuplicateDeliveryOfTerminalJobIsDropped(t *testing.T) {
	h := newHarness(t, 3)
	ctx := context.Background()

	job := &domain.Job{ID: "job-5", Status: domain.JobStatusPending, Brand: "liftline", Format: domain.FormatImageKit}
	_ = h.jobs.Create(ctx, job)
	_ = h.jobs.UpdateStatus(ctx, "job-5", domain.JobStatusProcessing, nil)
	_ = h.jobs.UpdateStatus(ctx, "job-5", domain.JobStatusCompleted, nil)
	_ = h.queue.Enqueue(ctx, "job-5", imageInput())

	before := len(h.jobs.statuses("job-5"))
	h.drain(t)

	if got := len(h.jobs.statuses("job-5")); got != before {
		t.Errorf("terminal job mutated on duplicate delivery: %v", h.jobs.statuses("job-5"))
	}
	if h.invoker.calls != 0 {
		t.Error("duplicate delivery must not invoke the provider")
	}
	if !h.queue.empty() {
		t.Error("duplicate message not acked")
	}
}

func TestStatusNeverReversesUnderRandomOutcomes(t *testing.T) {
	h := newHarness(t, 3)
	rng := rand.New(rand.NewSource(7))

	const jobCount = 25
	var script []invokeResult
	for i := 0; i < jobCount; i++ {
		id := fmt.Sprintf("job-r%d", i)
		h.submit(t, id, imageInput())
		// Each job draws up to maxAttempts outcomes.
		for a := 0; a < 3; a++ {
			switch rng.Intn(3) {
			case 0:
				script = append(script, invokeResult{media: domain.GeneratedMedia{
					URL: "https://cdn.example.com/out.png", ContentType: "image/png", Cost: 0.04,
				}})
			case 1:
				script = append(script, invokeResult{err: domain.Retryable(errors.New("transient"))})
			default:
				script = append(script, invokeResult{err: domain.NonRetryable(errors.New("bad content"))})
			}
		}
	}
	h.invoker.results = script

	h.drain(t)

	for i := 0; i < jobCount; i++ {
		id := fmt.Sprintf("job-r%d", i)
		history := h.jobs.statuses(id)
		assertMonotonic(t, id, history)
		final := history[len(history)-1]
		if !final.Terminal() && final != domain.JobStatusProcessing {
			t.Errorf("job %s ended in unexpected status %s", id, final)
		}
		job, _ := h.jobs.GetByID(context.Background(), id)
		if job.Status == domain.JobStatusFailed && job.ErrorMessage == "" {
			t.Errorf("job %s failed without an error message", id)
		}
	}
	if !h.queue.empty() {
		t.Error("queue not drained")
	}
}

func TestSpotVideoBlueprintCompletes(t *testing.T) {
	h := newHarness(t, 3)
	perShot := domain.GeneratedMedia{URL: "https://cdn.example.com/clip.mp4", ContentType: "video/mp4", Cost: 0.60}
	h.invoker.results = []invokeResult{{media: perShot}, {media: perShot}, {media: perShot}}

	blueprint := `{
	  "format": "spot_video",
	  "durationSeconds": 9,
	  "fps": 30,
	  "shots": [
	    {"shotId": "s1", "timeStart": 0, "timeEnd": 3, "shotType": "close_up", "sceneDescription": "hand presses lift button", "visualSource": "generated", "beat": "hook", "patternInterrupts": 2},
	    {"shotId": "s2", "timeStart": 3, "timeEnd": 6, "shotType": "mid", "sceneDescription": "chair begins to rise", "visualSource": "generated", "beat": "escalation", "patternInterrupts": 2},
	    {"shotId": "s3", "timeStart": 6, "timeEnd": 9, "shotType": "wide", "sceneDescription": "standing tall, smiling", "visualSource": "generated", "beat": "payoff", "patternInterrupts": 2}
	  ]
	}`
	briefJSON := `{"v": 1, "intentCategory": "growth", "tone": "energetic", "rules": []}`

	h.submit(t, "job-bp", domain.JobInput{
		Brand:     "liftline",
		Format:    domain.FormatSpotVideo,
		Objective: "grow the account",
		Variables: map[string]string{"blueprint": blueprint, "brief": briefJSON},
	})

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-bp")
	if job.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %s, want completed (err: %s)", job.Status, job.ErrorMessage)
	}
	if h.render.renders != 1 {
		t.Errorf("renders = %d, want 1", h.render.renders)
	}
	if job.Cost == nil || *job.Cost < 1.79 || *job.Cost > 1.81 {
		t.Errorf("cost = %v, want summed per-shot cost 1.80", job.Cost)
	}

	assets, _ := h.assets.ListByJobID(context.Background(), "job-bp")
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want single composited artifact", len(assets))
	}
	if assets[0].Kind != domain.AssetKindVideo {
		t.Errorf("asset kind = %s, want video", assets[0].Kind)
	}
	if !strings.HasPrefix(assets[0].URL, "https://assets.local/generated/liftline/spot_video/") {
		t.Errorf("artifact url = %q, want deterministic storage key", assets[0].URL)
	}
	if len(h.store.keys) != 1 || !strings.HasSuffix(h.store.keys[0], "/job-bp/artifact.mp4") {
		t.Errorf("storage keys = %v", h.store.keys)
	}
}

func TestSpotVideoBlankFramesRequeueThenSucceed(t *testing.T) {
	h := newHarness(t, 3)
	perShot := domain.GeneratedMedia{URL: "https://cdn.example.com/clip.mp4", ContentType: "video/mp4", Cost: 0.60}
	h.invoker.results = []invokeResult{
		{media: perShot}, {media: perShot}, {media: perShot},
		{media: perShot}, {media: perShot}, {media: perShot},
	}
	// First render comes back with a blank midpoint frame, second is clean.
	h.render.blankShots = [][]string{{"s2"}, nil}

	blueprint := `{
	  "format": "spot_video",
	  "durationSeconds": 9,
	  "fps": 30,
	  "shots": [
	    {"shotId": "s1", "timeStart": 0, "timeEnd": 3, "shotType": "close_up", "sceneDescription": "hand presses lift button", "visualSource": "generated", "beat": "hook", "patternInterrupts": 2},
	    {"shotId": "s2", "timeStart": 3, "timeEnd": 6, "shotType": "mid", "sceneDescription": "chair begins to rise", "visualSource": "generated", "beat": "escalation", "patternInterrupts": 2},
	    {"shotId": "s3", "timeStart": 6, "timeEnd": 9, "shotType": "wide", "sceneDescription": "standing tall, smiling", "visualSource": "generated", "beat": "payoff", "patternInterrupts": 2}
	  ]
	}`
	briefJSON := `{"v": 1, "intentCategory": "growth", "rules": []}`

	h.submit(t, "job-blank", domain.JobInput{
		Brand:     "liftline",
		Format:    domain.FormatSpotVideo,
		Objective: "grow the account",
		Variables: map[string]string{"blueprint": blueprint, "brief": briefJSON},
	})

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-blank")
	if job.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %s, want completed after blank-frame retry (err: %s)", job.Status, job.ErrorMessage)
	}
	if h.render.renders != 2 {
		t.Errorf("renders = %d, want 2 (blank render then clean)", h.render.renders)
	}
	if len(h.render.checked) == 0 || !h.render.checked[0] {
		t.Error("renderer must be asked to inspect frames when blank output is rejected")
	}
	if h.invoker.calls != 6 {
		t.Errorf("invoker calls = %d, want shots regenerated on the retry", h.invoker.calls)
	}
	assertMonotonic(t, "job-blank", h.jobs.statuses("job-blank"))
}

func TestSpotVideoBlankFramesExhaustAttempts(t *testing.T) {
	h := newHarness(t, 2)
	perShot := domain.GeneratedMedia{URL: "https://cdn.example.com/clip.mp4", ContentType: "video/mp4", Cost: 0.60}
	h.invoker.results = []invokeResult{
		{media: perShot}, {media: perShot}, {media: perShot},
		{media: perShot}, {media: perShot}, {media: perShot},
	}
	h.render.blankShots = [][]string{{"s1", "s3"}, {"s1", "s3"}}

	blueprint := `{
	  "format": "spot_video",
	  "durationSeconds": 9,
	  "fps": 30,
	  "shots": [
	    {"shotId": "s1", "timeStart": 0, "timeEnd": 3, "shotType": "close_up", "sceneDescription": "hand presses lift button", "visualSource": "generated", "beat": "hook", "patternInterrupts": 2},
	    {"shotId": "s2", "timeStart": 3, "timeEnd": 6, "shotType": "mid", "sceneDescription": "chair begins to rise", "visualSource": "generated", "beat": "escalation", "patternInterrupts": 2},
	    {"shotId": "s3", "timeStart": 6, "timeEnd": 9, "shotType": "wide", "sceneDescription": "standing tall, smiling", "visualSource": "generated", "beat": "payoff", "patternInterrupts": 2}
	  ]
	}`
	briefJSON := `{"v": 1, "intentCategory": "growth", "rules": []}`

	h.submit(t, "job-blank2", domain.JobInput{
		Brand:     "liftline",
		Format:    domain.FormatSpotVideo,
		Objective: "grow the account",
		Variables: map[string]string{"blueprint": blueprint, "brief": briefJSON},
	})

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-blank2")
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %s, want failed once attempts are exhausted", job.Status)
	}
	if !strings.Contains(job.ErrorMessage, "blank frames") || !strings.Contains(job.ErrorMessage, "s1") {
		t.Errorf("error message = %q, should name the blank shots", job.ErrorMessage)
	}
	assets, _ := h.assets.ListByJobID(context.Background(), "job-blank2")
	if len(assets) != 0 {
		t.Errorf("assets = %d, blank artifact must not be persisted", len(assets))
	}
}

func TestSpotVideoBlueprintMissingPayoffFails(t *testing.T) {
	h := newHarness(t, 3)
	blueprint := `{
	  "format": "spot_video",
	  "durationSeconds": 6,
	  "fps": 30,
	  "shots": [
	    {"shotId": "s1", "timeStart": 0, "timeEnd": 3, "shotType": "close_up", "sceneDescription": "hook shot", "visualSource": "generated", "beat": "hook", "patternInterrupts": 2},
	    {"shotId": "s2", "timeStart": 3, "timeEnd": 6, "shotType": "mid", "sceneDescription": "escalation shot", "visualSource": "generated", "beat": "escalation", "patternInterrupts": 2}
	  ]
	}`
	briefJSON := `{"v": 1, "intentCategory": "growth", "rules": []}`

	h.submit(t, "job-bad", domain.JobInput{
		Brand:     "liftline",
		Format:    domain.FormatSpotVideo,
		Objective: "grow the account",
		Variables: map[string]string{"blueprint": blueprint, "brief": briefJSON},
	})

	h.drain(t)

	job, _ := h.jobs.GetByID(context.Background(), "job-bad")
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %s, want failed on missing payoff", job.Status)
	}
	if !strings.Contains(job.ErrorMessage, "payoff") {
		t.Errorf("error message = %q, should name the missing beat", job.ErrorMessage)
	}
	if h.invoker.calls != 0 {
		t.Error("narrative failure must block generation before any provider spend")
	}
	if h.render.renders != 0 {
		t.Error("failed blueprint must not be composited")
	}
}
