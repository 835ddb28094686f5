package validate

import (
	"fmt"
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// CheckResult is the verdict of one gate check. CanRetry is advisory: it
// recommends regenerating the shot rather than failing the job; the worker
// decides whether to act on it.
type CheckResult struct {
	OK       bool
	CanRetry bool
	Reason   string
}

func pass() CheckResult { return CheckResult{OK: true} }

func reject(canRetry bool, format string, args ...any) CheckResult {
	return CheckResult{CanRetry: canRetry, Reason: fmt.Sprintf(format, args...)}
}

// GateA runs the pre-generation checks for a shot, before any provider cost
// is spent. Missing required on-screen text is a content-authoring defect
// and not retryable; a placeholder visual where a real clip is mandatory
// signals the shot should be regenerated.
func GateA(shot domain.Shot, rules domain.MandatoryRules) CheckResult {
	if rules.RequireOnScreenText && !hasText(shot) {
		return reject(false, "shot %s: on-screen text required but absent", shot.ShotID)
	}
	if rules.RequireGeneratedClip && shot.VisualSource == domain.VisualSourcePlaceholder {
		return reject(true, "shot %s: placeholder visual where a generated clip is mandatory", shot.ShotID)
	}
	return pass()
}

// GateB runs the post-generation checks against the returned asset.
func GateB(shot domain.Shot, rules domain.MandatoryRules, assetURL, contentType string) CheckResult {
	if rules.RequireGeneratedClip && strings.TrimSpace(assetURL) == "" {
		return reject(true, "shot %s: no asset URL returned", shot.ShotID)
	}
	if rules.RejectImageOutput && strings.HasPrefix(contentType, "image/") {
		return reject(true, "shot %s: image returned where a real clip is required (%s)", shot.ShotID, contentType)
	}
	if rules.RequireOnScreenText && !hasText(shot) {
		return reject(false, "shot %s: on-screen text required but absent", shot.ShotID)
	}
	return pass()
}

func hasText(shot domain.Shot) bool {
	return shot.OnScreenText != nil && strings.TrimSpace(shot.OnScreenText.Text) != ""
}
