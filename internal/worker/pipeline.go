package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/catalog"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/provider"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/template"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/validate"
)

// process runs the full pipeline for one claimed job: resolve a prompt,
// select a model, invoke the provider, gate the result, composite blueprint
// jobs, and persist assets and cost. Stages run strictly in this order.
func (p *Pool) process(ctx context.Context, logger infra.Logger, job *domain.Job, input domain.JobInput) error {
	b, err := p.resolveBrief(ctx, input)
	if err != nil {
		return err
	}
	rules := validate.DeriveMandatoryRules(b)

	brandInfo, _ := p.deps.Brands.Lookup(input.Brand)
	builder := p.deps.Templates.Resolve(input.Brand, input.Format, input.HookType)
	prompt := builder(template.BuildContext{
		Brand:     brandInfo,
		Objective: input.Objective,
		HookType:  input.HookType,
		Variables: input.Variables,
		Brief:     b,
	})

	quality := input.Variables["quality"]
	model, err := p.deps.Models.Select(input.Format, quality, input.ModelOverride)
	if err != nil {
		return err
	}
	if err := p.deps.Jobs.SetModel(ctx, job.ID, model.Key); err != nil {
		return domain.Retryable(fmt.Errorf("record model: %w", err))
	}
	logger.Info().Str("model", model.Key).Msg("worker: model selected")

	opts := provider.InvokeOptions{
		AspectRatio: aspectFor(input),
		Quality:     quality,
	}

	var cost float64
	switch input.Format {
	case domain.FormatImageKit:
		cost, err = p.processImage(ctx, job, input, rules, model, prompt, opts)
	case domain.FormatMotionPost:
		cost, err = p.processMotion(ctx, job, input, rules, model, prompt, opts)
	case domain.FormatSpotVideo:
		cost, err = p.processBlueprint(ctx, logger, job, input, b, rules, brandInfo, model, prompt, opts)
	default:
		return domain.NonRetryable(fmt.Errorf("unsupported format %q", input.Format))
	}
	if cost > 0 {
		providerCostTotal.Add(cost)
		if costErr := p.deps.Jobs.SetCost(ctx, job.ID, cost); costErr != nil {
			logger.Error().Err(costErr).Msg("worker: record cost failed")
		}
	}
	return err
}

func (p *Pool) resolveBrief(ctx context.Context, input domain.JobInput) (*domain.CompactCreativeBrief, error) {
	if raw, ok := input.Variables["brief"]; ok && raw != "" {
		var b domain.CompactCreativeBrief
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, domain.NonRetryable(fmt.Errorf("decode creative brief: %w", err))
		}
		return &b, nil
	}
	b, err := p.deps.Briefs.Produce(ctx, input)
	if err != nil {
		return nil, domain.Retryable(fmt.Errorf("produce creative brief: %w", err))
	}
	return b, nil
}

// processImage generates a still image set entry. Video-output rules do not
// apply to a still format, so those flags are neutralized before Gate B.
func (p *Pool) processImage(ctx context.Context, job *domain.Job, input domain.JobInput, rules domain.MandatoryRules, model catalog.Model, prompt string, opts provider.InvokeOptions) (float64, error) {
	media, err := p.deps.Invoker.Invoke(ctx, model, prompt, opts)
	if err != nil {
		return 0, err
	}

	imageRules := rules
	imageRules.RejectImageOutput = false
	imageRules.RequireGeneratedClip = false
	if res := validate.GateB(outputShot(input), imageRules, media.URL, media.ContentType); !res.OK {
		return media.Cost, gateError(res)
	}

	asset := domain.Asset{
		ID:    uuid.NewString(),
		JobID: job.ID,
		Kind:  domain.KindForContentType(media.ContentType, domain.AssetKindImage),
		URL:   media.URL,
	}
	if err := p.deps.Assets.SaveAll(ctx, job.ID, []domain.Asset{asset}); err != nil {
		return media.Cost, domain.Retryable(fmt.Errorf("persist asset: %w", err))
	}
	return media.Cost, nil
}

// processMotion runs the image-to-video two-stage path for a short clip.
func (p *Pool) processMotion(ctx context.Context, job *domain.Job, input domain.JobInput, rules domain.MandatoryRules, model catalog.Model, prompt string, opts provider.InvokeOptions) (float64, error) {
	opts.DurationSeconds = floatVar(input, "duration_seconds", 6)
	opts.MotionIntensity = input.Variables["motion_intensity"]

	media, err := p.deps.Invoker.InvokeImageToVideo(ctx, model, prompt, opts)
	if err != nil {
		return 0, err
	}
	if res := validate.GateB(outputShot(input), rules, media.URL, media.ContentType); !res.OK {
		return media.Cost, gateError(res)
	}

	duration := media.Duration
	if duration == 0 {
		duration = opts.DurationSeconds
	}
	asset := domain.Asset{
		ID:              uuid.NewString(),
		JobID:           job.ID,
		Kind:            domain.KindForContentType(media.ContentType, domain.AssetKindVideo),
		URL:             media.URL,
		DurationSeconds: duration,
	}
	if err := p.deps.Assets.SaveAll(ctx, job.ID, []domain.Asset{asset}); err != nil {
		return media.Cost, domain.Retryable(fmt.Errorf("persist asset: %w", err))
	}
	return media.Cost, nil
}

// processBlueprint validates the shot blueprint, generates per-shot clips,
// gates each result, composites the final artifact, and uploads it.
func (p *Pool) processBlueprint(ctx context.Context, logger infra.Logger, job *domain.Job, input domain.JobInput, b *domain.CompactCreativeBrief, rules domain.MandatoryRules, brandInfo domain.BrandInfo, model catalog.Model, prompt string, opts provider.InvokeOptions) (float64, error) {
	raw, ok := input.Variables["blueprint"]
	if !ok || raw == "" {
		return 0, domain.NonRetryable(errors.New("blueprint payload missing"))
	}
	if err := validate.BlueprintDocument([]byte(raw)); err != nil {
		return 0, domain.NonRetryable(err)
	}
	var bp domain.Blueprint
	if err := json.Unmarshal([]byte(raw), &bp); err != nil {
		return 0, domain.NonRetryable(fmt.Errorf("decode blueprint: %w", err))
	}
	if bp.Format == "" {
		bp.Format = input.Format
	}

	intent := domain.IntentGrowth
	if b != nil && b.IntentCategory.Known() {
		intent = b.IntentCategory
	}
	report := validate.Blueprint(intent, bp, rules)
	if !report.OK() {
		if report.CanRetry() {
			return 0, domain.Retryable(errors.New(report.Summary()))
		}
		return 0, domain.NonRetryable(errors.New(report.Summary()))
	}

	var cost float64
	media := make(map[string]domain.ShotMedia, len(bp.Shots))
	for _, shot := range bp.Shots {
		shotOpts := opts
		shotOpts.DurationSeconds = shot.Duration()

		generated, err := p.deps.Invoker.Invoke(ctx, model, shotPrompt(prompt, shot), shotOpts)
		if err != nil {
			return cost, err
		}
		cost += generated.Cost

		if res := validate.GateB(shot, rules, generated.URL, generated.ContentType); !res.OK {
			return cost, gateError(res)
		}
		// ffmpeg reads remote inputs directly, so the clip URL doubles as
		// the compositor's input path.
		media[shot.ShotID] = domain.ShotMedia{ClipPath: generated.URL}
		logger.Debug().Str("shot_id", shot.ShotID).Msg("worker: shot generated")
	}

	artifactPath, frames, err := p.deps.Compositor.Render(ctx, job.ID, bp, media, brandInfo, rules.RejectBlankFrames)
	if err != nil {
		return cost, domain.Retryable(fmt.Errorf("composite blueprint: %w", err))
	}
	if rules.RejectBlankFrames {
		var blank []string
		for _, frame := range frames {
			if frame.PossiblyBlank {
				blank = append(blank, frame.ShotID)
			}
		}
		if len(blank) > 0 {
			return cost, domain.Retryable(fmt.Errorf("blank frames detected in shots %s", strings.Join(blank, ", ")))
		}
	}
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return cost, domain.Retryable(fmt.Errorf("read artifact: %w", err))
	}
	url, err := p.deps.Store.Write(ctx, artifactKey(input, job.ID, time.Now().UTC()), data)
	if err != nil {
		return cost, domain.Retryable(fmt.Errorf("upload artifact: %w", err))
	}

	asset := domain.Asset{
		ID:              uuid.NewString(),
		JobID:           job.ID,
		Kind:            domain.AssetKindVideo,
		URL:             url,
		DurationSeconds: bp.DurationSeconds,
	}
	if err := p.deps.Assets.SaveAll(ctx, job.ID, []domain.Asset{asset}); err != nil {
		return cost, domain.Retryable(fmt.Errorf("persist asset: %w", err))
	}
	return cost, nil
}

// artifactKey builds the deterministic object-store path for a composited
// artifact.
func artifactKey(input domain.JobInput, jobID string, now time.Time) string {
	return fmt.Sprintf("generated/%s/%s/%s/%s/artifact.mp4",
		input.Brand, input.Format, now.Format("2006-01-02"), jobID)
}

// outputShot represents a single-output job as a pseudo shot so the same
// gate checks apply to blueprint and non-blueprint formats.
func outputShot(input domain.JobInput) domain.Shot {
	shot := domain.Shot{ShotID: "output", VisualSource: domain.VisualSourceGenerated}
	if caption := input.Variables["caption"]; caption != "" {
		shot.OnScreenText = &domain.OnScreenText{Text: caption}
	}
	return shot
}

func shotPrompt(base string, shot domain.Shot) string {
	s := base + "\nShot: " + shot.SceneDescription
	if shot.CameraMovement != "" {
		s += "\nCamera: " + shot.CameraMovement
	}
	if shot.ShotType != "" {
		s += "\nShot type: " + shot.ShotType
	}
	return s
}

func gateError(res validate.CheckResult) error {
	err := errors.New(res.Reason)
	if res.CanRetry {
		return domain.Retryable(err)
	}
	return domain.NonRetryable(err)
}

func floatVar(input domain.JobInput, key string, fallback float64) float64 {
	if v, ok := input.Variables[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func aspectFor(input domain.JobInput) string {
	if v := input.Variables["aspect_ratio"]; v != "" {
		return v
	}
	switch input.Format {
	case domain.FormatImageKit:
		return "1:1"
	case domain.FormatMotionPost:
		return "4:5"
	default:
		return "9:16"
	}
}
