// Package brief supplies the CompactCreativeBrief consumed by validation and
// prompt building. The LLM that authors briefs in production sits upstream;
// this package provides the fixed presets the pipeline falls back to, plus a
// content-derived cache so identical requests reuse one brief.
package brief

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// Producer yields a brief for a job input.
type Producer interface {
	Produce(ctx context.Context, input domain.JobInput) (*domain.CompactCreativeBrief, error)
}

// CacheKey derives a stable key from the brief-relevant request content.
func CacheKey(input domain.JobInput) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|", strings.ToLower(input.Brand), input.Format, strings.ToLower(input.Objective), input.HookType)
	keys := make([]string, 0, len(input.Variables))
	for k := range input.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s|", k, input.Variables[k])
	}
	return hex.EncodeToString(h.Sum(nil))[:24]
}

// intentForObjective keyword-maps a free-form objective onto an intent
// category. Unmatched objectives default to growth.
func intentForObjective(objective string) domain.IntentCategory {
	obj := strings.ToLower(objective)
	switch {
	case strings.Contains(obj, "lead"), strings.Contains(obj, "signup"), strings.Contains(obj, "sign-up"):
		return domain.IntentLeadGen
	case strings.Contains(obj, "authority"), strings.Contains(obj, "trust"), strings.Contains(obj, "expert"):
		return domain.IntentAuthority
	case strings.Contains(obj, "educat"), strings.Contains(obj, "how to"), strings.Contains(obj, "explain"):
		return domain.IntentEducation
	case strings.Contains(obj, "convert"), strings.Contains(obj, "sale"), strings.Contains(obj, "buy"), strings.Contains(obj, "offer"):
		return domain.IntentConversion
	default:
		return domain.IntentGrowth
	}
}

// presets are the fixed briefs used when no upstream brief is supplied.
var presets = map[domain.IntentCategory]domain.CompactCreativeBrief{
	domain.IntentGrowth: {
		V: 1, IntentCategory: domain.IntentGrowth,
		Concept: "fast product-in-motion montage", Tone: "energetic",
		Look: "high-contrast daylight", Camera: "quick push-ins",
		Light: "hard key", Music: "driving percussion", VO: "confident",
		Text: "bold captions",
		Rules: []string{"every shot needs on-screen text", "no blank frames"},
	},
	domain.IntentLeadGen: {
		V: 1, IntentCategory: domain.IntentLeadGen,
		Concept: "problem-first walkthrough ending on the offer", Tone: "direct",
		Look: "clean interior", Camera: "locked-off then slow dolly",
		Light: "soft window light", Music: "understated pulse", VO: "warm",
		Text: "benefit captions",
		Rules: []string{"every shot needs on-screen text", "must have real footage"},
	},
	domain.IntentAuthority: {
		V: 1, IntentCategory: domain.IntentAuthority,
		Concept: "craftsmanship close-ups with proof points", Tone: "assured",
		Look: "muted premium palette", Camera: "slow orbits",
		Light: "low-key studio", Music: "sparse piano", VO: "measured",
		Text: "proof captions",
		Rules: []string{"no blank frames"},
	},
	domain.IntentEducation: {
		V: 1, IntentCategory: domain.IntentEducation,
		Concept: "step-by-step demonstration", Tone: "helpful",
		Look: "bright neutral set", Camera: "overhead and mid shots",
		Light: "even softbox", Music: "light keys", VO: "clear",
		Text: "step captions",
		Rules: []string{"every shot needs on-screen text"},
	},
	domain.IntentConversion: {
		V: 1, IntentCategory: domain.IntentConversion,
		Concept: "offer-led product showcase", Tone: "urgent but premium",
		Look: "rich contrast", Camera: "snap zooms",
		Light: "dramatic rim", Music: "rising synth", VO: "persuasive",
		Text: "price and CTA captions",
		Rules: []string{"every shot needs on-screen text", "no still images"},
	},
}

// PresetProducer resolves briefs from the fixed presets, cached by content
// key. Safe for concurrent use by the worker pool.
type PresetProducer struct {
	mu    sync.Mutex
	cache map[string]*domain.CompactCreativeBrief
}

// NewPresetProducer builds an empty producer.
func NewPresetProducer() *PresetProducer {
	return &PresetProducer{cache: make(map[string]*domain.CompactCreativeBrief)}
}

// Produce returns the preset brief for the input's derived intent category.
func (p *PresetProducer) Produce(ctx context.Context, input domain.JobInput) (*domain.CompactCreativeBrief, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := CacheKey(input)

	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.cache[key]; ok {
		return cached, nil
	}

	preset := presets[intentForObjective(input.Objective)]
	b := preset
	p.cache[key] = &b
	return &b, nil
}

var _ Producer = (*PresetProducer)(nil)
