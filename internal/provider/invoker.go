package provider

import (
	"context"
	"encoding/json"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/catalog"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// InvokeOptions carries the per-call generation parameters.
type InvokeOptions struct {
	AspectRatio     string  `json:"aspectRatio,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	MotionIntensity string  `json:"motionIntensity,omitempty"`
	Quality         string  `json:"quality,omitempty"`
}

// Invoker drives generation calls against the provider for a selected model.
type Invoker struct {
	client *Client
}

// NewInvoker wraps a provider client.
func NewInvoker(client *Client) *Invoker {
	return &Invoker{client: client}
}

type generateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Options InvokeOptions `json:"options"`
}

type animateRequest struct {
	Model    string        `json:"model"`
	ImageURL string        `json:"imageUrl"`
	Prompt   string        `json:"prompt,omitempty"`
	Options  InvokeOptions `json:"options"`
}

// Invoke sends one generation call and normalizes the result. When the
// provider omits a cost the model's registered per-call cost is recorded so
// spend is never silently dropped.
func (iv *Invoker) Invoke(ctx context.Context, model catalog.Model, prompt string, opts InvokeOptions) (domain.GeneratedMedia, error) {
	raw, err := iv.client.post(ctx, "/generate", generateRequest{
		Model:   model.ProviderID(opts.Quality),
		Prompt:  prompt,
		Options: opts,
	})
	if err != nil {
		return domain.GeneratedMedia{}, err
	}
	media, err := iv.normalize(raw)
	if err != nil {
		return domain.GeneratedMedia{}, err
	}
	if media.Cost == 0 {
		media.Cost = model.CostPerCall
	}
	return media, nil
}

// InvokeImageToVideo runs the two-stage path: generate a still from the
// prompt, then animate it into a short clip. Total cost is the sum of both
// stages.
func (iv *Invoker) InvokeImageToVideo(ctx context.Context, model catalog.Model, prompt string, opts InvokeOptions) (domain.GeneratedMedia, error) {
	stillOpts := opts
	stillOpts.DurationSeconds = 0
	stillOpts.MotionIntensity = ""

	still, err := iv.Invoke(ctx, model, prompt, stillOpts)
	if err != nil {
		return domain.GeneratedMedia{}, err
	}

	raw, err := iv.client.post(ctx, "/animate", animateRequest{
		Model:    model.ProviderID(opts.Quality),
		ImageURL: still.URL,
		Prompt:   prompt,
		Options:  opts,
	})
	if err != nil {
		return domain.GeneratedMedia{}, err
	}
	clip, err := iv.normalize(raw)
	if err != nil {
		return domain.GeneratedMedia{}, err
	}
	if clip.Cost == 0 {
		clip.Cost = model.CostPerCall
	}
	clip.Cost += still.Cost
	return clip, nil
}

func (iv *Invoker) normalize(raw json.RawMessage) (domain.GeneratedMedia, error) {
	media, err := Normalize(raw)
	if err != nil {
		iv.client.logger.Error().
			RawJSON("payload", clipJSON(raw)).
			Msg("provider: response could not be normalized")
		return domain.GeneratedMedia{}, err
	}
	return media, nil
}

// clipJSON bounds the payload logged for unrecognized responses while
// keeping it valid JSON for structured output.
func clipJSON(raw json.RawMessage) []byte {
	if json.Valid(raw) && len(raw) <= 2048 {
		return raw
	}
	b, _ := json.Marshal(clip(raw))
	return b
}
