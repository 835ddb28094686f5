package validate

import (
	"math"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// interruptsPerSecond is the minimum pattern-interrupt density (scene,
// camera, text, sound, or speed changes) each intent category demands.
var interruptsPerSecond = map[domain.IntentCategory]float64{
	domain.IntentGrowth:     0.50,
	domain.IntentLeadGen:    0.40,
	domain.IntentAuthority:  0.30,
	domain.IntentEducation:  0.25,
	domain.IntentConversion: 0.45,
}

const defaultInterruptsPerSecond = 0.30

// RhythmReport compares the required interrupt count against the measured one.
type RhythmReport struct {
	Intent   domain.IntentCategory
	Required int
	Actual   int
	Runtime  float64
}

// OK reports whether the edit rhythm is dense enough.
func (r RhythmReport) OK() bool { return r.Actual >= r.Required }

// CheckRhythm computes the pattern-interrupt density over the shot list.
// When shots carry explicit interrupt markers those are summed; otherwise
// one interrupt is assumed per cut.
func CheckRhythm(intent domain.IntentCategory, shots []domain.Shot) RhythmReport {
	density, ok := interruptsPerSecond[intent]
	if !ok {
		density = defaultInterruptsPerSecond
	}

	var runtime float64
	actual := 0
	marked := false
	for _, shot := range shots {
		runtime += shot.Duration()
		if shot.PatternInterrupts > 0 {
			marked = true
			actual += shot.PatternInterrupts
		}
	}
	if !marked {
		actual = len(shots)
	}

	return RhythmReport{
		Intent:   intent,
		Required: int(math.Ceil(density * runtime)),
		Actual:   actual,
		Runtime:  runtime,
	}
}
