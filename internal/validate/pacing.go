package validate

import (
	"fmt"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// PacingLimits bounds shot count and durations for an intent category.
type PacingLimits struct {
	MaxShots        int
	MinShotSeconds  float64
	MaxShotSeconds  float64
	MaxTotalSeconds float64
}

var pacingByIntent = map[domain.IntentCategory]PacingLimits{
	domain.IntentGrowth:     {MaxShots: 8, MinShotSeconds: 1.0, MaxShotSeconds: 5.0, MaxTotalSeconds: 30},
	domain.IntentLeadGen:    {MaxShots: 6, MinShotSeconds: 1.5, MaxShotSeconds: 6.0, MaxTotalSeconds: 30},
	domain.IntentAuthority:  {MaxShots: 7, MinShotSeconds: 2.0, MaxShotSeconds: 8.0, MaxTotalSeconds: 45},
	domain.IntentEducation:  {MaxShots: 10, MinShotSeconds: 2.0, MaxShotSeconds: 10.0, MaxTotalSeconds: 60},
	domain.IntentConversion: {MaxShots: 6, MinShotSeconds: 1.5, MaxShotSeconds: 5.0, MaxTotalSeconds: 30},
}

// defaultPacing covers unknown intent categories.
var defaultPacing = PacingLimits{MaxShots: 8, MinShotSeconds: 1.0, MaxShotSeconds: 8.0, MaxTotalSeconds: 45}

// PacingFor returns the limits applied to an intent category.
func PacingFor(intent domain.IntentCategory) PacingLimits {
	if limits, ok := pacingByIntent[intent]; ok {
		return limits
	}
	return defaultPacing
}

// PacingViolation is one measured-vs-limit breach, attributed to a shot
// where the breach is shot-scoped.
type PacingViolation struct {
	ShotID   string
	Rule     string
	Measured float64
	Limit    float64
	Message  string
}

// PacingReport lists every pacing violation found.
type PacingReport struct {
	Intent     domain.IntentCategory
	Violations []PacingViolation
}

// OK reports whether pacing passed.
func (r PacingReport) OK() bool { return len(r.Violations) == 0 }

// CheckPacing measures the shot list against the intent category's limits.
func CheckPacing(intent domain.IntentCategory, shots []domain.Shot) PacingReport {
	limits := PacingFor(intent)
	report := PacingReport{Intent: intent}

	if len(shots) > limits.MaxShots {
		report.Violations = append(report.Violations, PacingViolation{
			Rule:     "max_shots",
			Measured: float64(len(shots)),
			Limit:    float64(limits.MaxShots),
			Message:  fmt.Sprintf("%d shots > %d max", len(shots), limits.MaxShots),
		})
	}

	var total float64
	for _, shot := range shots {
		d := shot.Duration()
		total += d
		if d < limits.MinShotSeconds {
			report.Violations = append(report.Violations, PacingViolation{
				ShotID:   shot.ShotID,
				Rule:     "min_shot_seconds",
				Measured: d,
				Limit:    limits.MinShotSeconds,
				Message:  fmt.Sprintf("shot %s runs %.2fs < %.2fs min", shot.ShotID, d, limits.MinShotSeconds),
			})
		}
		if d > limits.MaxShotSeconds {
			report.Violations = append(report.Violations, PacingViolation{
				ShotID:   shot.ShotID,
				Rule:     "max_shot_seconds",
				Measured: d,
				Limit:    limits.MaxShotSeconds,
				Message:  fmt.Sprintf("shot %s runs %.2fs > %.2fs max", shot.ShotID, d, limits.MaxShotSeconds),
			})
		}
	}

	if total > limits.MaxTotalSeconds {
		report.Violations = append(report.Violations, PacingViolation{
			Rule:     "max_total_seconds",
			Measured: total,
			Limit:    limits.MaxTotalSeconds,
			Message:  fmt.Sprintf("total runtime %.2fs > %.2fs max", total, limits.MaxTotalSeconds),
		})
	}

	return report
}
