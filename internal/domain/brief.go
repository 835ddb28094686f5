package domain

// IntentCategory classifies the campaign goal. It parameterizes beat,
// pacing, and edit-rhythm requirements during blueprint validation.
type IntentCategory string

const (
	IntentGrowth     IntentCategory = "growth"
	IntentLeadGen    IntentCategory = "lead_gen"
	IntentAuthority  IntentCategory = "authority"
	IntentEducation  IntentCategory = "education"
	IntentConversion IntentCategory = "conversion"
)

// Known reports whether the category is one of the supported values.
func (c IntentCategory) Known() bool {
	switch c {
	case IntentGrowth, IntentLeadGen, IntentAuthority, IntentEducation, IntentConversion:
		return true
	}
	return false
}

// CompactCreativeBrief is the short creative-direction contract produced
// upstream (LLM or preset). The pipeline reads it to derive MandatoryRules
// and narrative constraints; it never mutates one.
type CompactCreativeBrief struct {
	V              int            `json:"v"`
	IntentCategory IntentCategory `json:"intentCategory"`
	Concept        string         `json:"concept"`
	Tone           string         `json:"tone"`
	Look           string         `json:"look"`
	Camera         string         `json:"camera"`
	Light          string         `json:"light"`
	Music          string         `json:"music"`
	VO             string         `json:"vo"`
	Text           string         `json:"text"`
	Rules          []string       `json:"rules"`
}

// MandatoryRules are the boolean content-quality flags derived from a
// brief's free-text rules over a fixed default baseline.
type MandatoryRules struct {
	RequireGeneratedClip bool
	RejectImageOutput    bool
	RejectBlankFrames    bool
	RequireOnScreenText  bool
}
