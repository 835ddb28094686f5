package validate

import "github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"

// BeatPayoff is mandatory for every intent category, listed or not.
const BeatPayoff = "payoff"

// requiredBeats lists the narrative beats each intent category must cover.
var requiredBeats = map[domain.IntentCategory][]string{
	domain.IntentGrowth:     {"hook", "escalation", BeatPayoff},
	domain.IntentLeadGen:    {"hook", "problem", "mechanism", BeatPayoff, "cta"},
	domain.IntentAuthority:  {"hook", "proof", BeatPayoff},
	domain.IntentEducation:  {"hook", "teach", BeatPayoff},
	domain.IntentConversion: {"hook", "offer", BeatPayoff, "cta"},
}

// optionalBeats may appear but their absence never fails validation.
var optionalBeats = map[domain.IntentCategory][]string{
	domain.IntentGrowth:     {"cta"},
	domain.IntentAuthority:  {"credibility"},
	domain.IntentEducation:  {"recap"},
	domain.IntentConversion: {"urgency"},
}

// BeatReport lists the required beats a blueprint failed to cover.
type BeatReport struct {
	Intent  domain.IntentCategory
	Missing []string
}

// OK reports whether beat coverage passed.
func (r BeatReport) OK() bool { return len(r.Missing) == 0 }

// CheckBeats verifies that the shots cover every required beat for the
// intent category. Unknown categories still require hook and payoff.
func CheckBeats(intent domain.IntentCategory, shots []domain.Shot) BeatReport {
	required, ok := requiredBeats[intent]
	if !ok {
		required = []string{"hook", BeatPayoff}
	}

	covered := make(map[string]bool, len(shots))
	for _, shot := range shots {
		if shot.Beat != "" {
			covered[shot.Beat] = true
		}
	}

	report := BeatReport{Intent: intent}
	seen := map[string]bool{}
	for _, beat := range required {
		seen[beat] = true
		if !covered[beat] {
			report.Missing = append(report.Missing, beat)
		}
	}
	if !seen[BeatPayoff] && !covered[BeatPayoff] {
		report.Missing = append(report.Missing, BeatPayoff)
	}
	return report
}
