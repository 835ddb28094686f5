// Package validate implements the two-phase quality gates and the
// blueprint-level narrative checks (beat coverage, pacing, edit rhythm).
// Everything here is a pure function over data; the worker decides what to
// do with the verdicts.
package validate

import (
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// defaultRules is the fixed baseline the brief's free-text rules are matched
// over. Matching only ever enables flags on top of the baseline.
var defaultRules = domain.MandatoryRules{
	RequireGeneratedClip: true,
	RejectImageOutput:    true,
	RejectBlankFrames:    true,
	RequireOnScreenText:  false,
}

// DeriveMandatoryRules keyword-matches a brief's free-text rules into the
// boolean quality flags. A nil brief yields the baseline unchanged.
func DeriveMandatoryRules(brief *domain.CompactCreativeBrief) domain.MandatoryRules {
	rules := defaultRules
	if brief == nil {
		return rules
	}
	for _, raw := range brief.Rules {
		rule := strings.ToLower(raw)
		switch {
		case containsAny(rule, "on-screen text", "onscreen text", "caption", "text per shot", "text overlay"):
			rules.RequireOnScreenText = true
		case containsAny(rule, "blank", "placeholder frame", "empty frame"):
			rules.RejectBlankFrames = true
		case containsAny(rule, "no still", "no image", "reject image", "not a static"):
			rules.RejectImageOutput = true
		case containsAny(rule, "real clip", "generated clip", "real footage", "must have video"):
			rules.RequireGeneratedClip = true
		}
	}
	return rules
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
