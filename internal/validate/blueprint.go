package validate

import (
	"fmt"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// StructuralError is one structural defect in a blueprint's shot timeline.
type StructuralError struct {
	ShotID  string
	Message string
}

// CheckStructure verifies the timeline invariants: every shot has
// timeEnd > timeStart, shots are in start order, and no two shots overlap.
// Gaps are permitted.
func CheckStructure(bp domain.Blueprint) []StructuralError {
	var errs []StructuralError
	if bp.DurationSeconds <= 0 {
		errs = append(errs, StructuralError{Message: "durationSeconds must be positive"})
	}
	if bp.FPS <= 0 {
		errs = append(errs, StructuralError{Message: "fps must be positive"})
	}
	if len(bp.Shots) == 0 {
		errs = append(errs, StructuralError{Message: "blueprint has no shots"})
		return errs
	}
	prevEnd := 0.0
	for i, shot := range bp.Shots {
		if shot.TimeEnd <= shot.TimeStart {
			errs = append(errs, StructuralError{
				ShotID:  shot.ShotID,
				Message: fmt.Sprintf("shot %s: timeEnd %.2f <= timeStart %.2f", shot.ShotID, shot.TimeEnd, shot.TimeStart),
			})
		}
		if i > 0 && shot.TimeStart < prevEnd {
			errs = append(errs, StructuralError{
				ShotID:  shot.ShotID,
				Message: fmt.Sprintf("shot %s starts at %.2f before previous shot ends at %.2f", shot.ShotID, shot.TimeStart, prevEnd),
			})
		}
		if shot.TimeEnd > prevEnd {
			prevEnd = shot.TimeEnd
		}
	}
	return errs
}

// ShotFailure records one failed gate check.
type ShotFailure struct {
	ShotID string
	Result CheckResult
}

// Report aggregates every check run over a full blueprint. Compositing is
// all-or-nothing: a single failed shot or narrative check blocks the whole
// blueprint.
type Report struct {
	Structural []StructuralError
	Shots      []ShotFailure
	Beats      BeatReport
	Pacing     PacingReport
	Rhythm     RhythmReport
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return len(r.Structural) == 0 &&
		len(r.Shots) == 0 &&
		r.Beats.OK() &&
		r.Pacing.OK() &&
		r.Rhythm.OK()
}

// CanRetry reports whether every shot failure is individually retryable.
// Structural and narrative failures are authoring defects and never are.
func (r Report) CanRetry() bool {
	if len(r.Structural) > 0 || !r.Beats.OK() || !r.Pacing.OK() || !r.Rhythm.OK() {
		return false
	}
	for _, f := range r.Shots {
		if !f.Result.CanRetry {
			return false
		}
	}
	return len(r.Shots) > 0
}

// Summary renders the report as one human-readable line for the job's
// error message. Structured details stay available on the report itself.
func (r Report) Summary() string {
	if r.OK() {
		return ""
	}
	switch {
	case len(r.Structural) > 0:
		return "blueprint structure: " + r.Structural[0].Message
	case len(r.Shots) > 0:
		return "shot validation: " + r.Shots[0].Result.Reason
	case !r.Beats.OK():
		return fmt.Sprintf("missing required beats for %s: %v", r.Beats.Intent, r.Beats.Missing)
	case !r.Pacing.OK():
		return "pacing: " + r.Pacing.Violations[0].Message
	default:
		return fmt.Sprintf("edit rhythm too sparse: %d interrupts, %d required over %.1fs", r.Rhythm.Actual, r.Rhythm.Required, r.Rhythm.Runtime)
	}
}

// Blueprint runs Gate A over every shot plus the three narrative checks.
// Post-generation Gate B runs per shot in the worker after each clip returns.
func Blueprint(intent domain.IntentCategory, bp domain.Blueprint, rules domain.MandatoryRules) Report {
	report := Report{Structural: CheckStructure(bp)}
	for _, shot := range bp.Shots {
		if res := GateA(shot, rules); !res.OK {
			report.Shots = append(report.Shots, ShotFailure{ShotID: shot.ShotID, Result: res})
		}
	}
	report.Beats = CheckBeats(intent, bp.Shots)
	report.Pacing = CheckPacing(intent, bp.Shots)
	report.Rhythm = CheckRhythm(intent, bp.Shots)
	return report
}
