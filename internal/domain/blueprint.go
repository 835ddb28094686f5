package domain

// VisualSource tags where a shot's visual comes from.
type VisualSource string

const (
	VisualSourceGenerated   VisualSource = "generated"
	VisualSourcePlaceholder VisualSource = "placeholder"
	VisualSourceStock       VisualSource = "stock"
)

// OnScreenText is a timed text overlay inside a shot.
type OnScreenText struct {
	Text     string `json:"text"`
	Position string `json:"position,omitempty"`
}

// Shot is one time-bounded segment of a blueprint with its own visual and
// text direction. Times are seconds from the start of the output.
type Shot struct {
	ShotID            string        `json:"shotId"`
	TimeStart         float64       `json:"timeStart"`
	TimeEnd           float64       `json:"timeEnd"`
	ShotType          string        `json:"shotType"`
	CameraMovement    string        `json:"cameraMovement"`
	SceneDescription  string        `json:"sceneDescription"`
	OnScreenText      *OnScreenText `json:"onScreenText,omitempty"`
	VisualSource      VisualSource  `json:"visualSource,omitempty"`
	Beat              string        `json:"beat,omitempty"`
	PatternInterrupts int           `json:"patternInterrupts,omitempty"`
}

// Duration returns the shot's length in seconds.
func (s Shot) Duration() float64 {
	return s.TimeEnd - s.TimeStart
}

// Blueprint is a timed, shot-by-shot plan for a multi-shot video output.
// Blueprints are produced upstream and are read-only inputs to the pipeline.
type Blueprint struct {
	Format          OutputFormat `json:"format"`
	DurationSeconds float64      `json:"durationSeconds"`
	FPS             int          `json:"fps"`
	Music           string       `json:"music,omitempty"`
	VoiceoverScript string       `json:"voiceoverScript,omitempty"`
	Shots           []Shot       `json:"shots"`
}

// ShotMedia groups the pre-generated per-shot assets consumed by the
// compositor: the rendered clip plus optional voiceover and music stems.
type ShotMedia struct {
	ClipPath      string
	VoiceoverPath string
	MusicPath     string
}
