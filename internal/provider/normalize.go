package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// resultShape tags the response layouts the provider is known to return.
type resultShape int

const (
	shapeUnknown resultShape = iota
	shapeBareString
	shapeArray
	shapeURLObject
	shapeOutputObject
	shapeDataArray
	shapeMediaObject
)

// mediaEnvelope is the superset of fields seen across provider object
// responses. Exactly one branch is populated per response.
type mediaEnvelope struct {
	URL         string          `json:"url,omitempty"`
	ContentType string          `json:"contentType,omitempty"`
	Cost        float64         `json:"cost,omitempty"`
	Duration    float64         `json:"durationSeconds,omitempty"`
	Output      json.RawMessage `json:"output,omitempty"`
	Data        []mediaEnvelope `json:"data,omitempty"`
	Video       *mediaEnvelope  `json:"video,omitempty"`
	Image       *mediaEnvelope  `json:"image,omitempty"`
}

func classify(raw json.RawMessage) (resultShape, mediaEnvelope, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return shapeUnknown, mediaEnvelope{}, fmt.Errorf("empty response")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return shapeUnknown, mediaEnvelope{}, err
		}
		return shapeBareString, mediaEnvelope{URL: s}, nil
	case '[':
		var items []mediaEnvelope
		if err := json.Unmarshal(raw, &items); err != nil {
			// Arrays of bare strings decode separately.
			var urls []string
			if err2 := json.Unmarshal(raw, &urls); err2 != nil || len(urls) == 0 {
				return shapeUnknown, mediaEnvelope{}, err
			}
			return shapeArray, mediaEnvelope{URL: urls[0]}, nil
		}
		if len(items) == 0 {
			return shapeUnknown, mediaEnvelope{}, fmt.Errorf("empty array response")
		}
		return shapeArray, items[0], nil
	case '{':
		var env mediaEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return shapeUnknown, mediaEnvelope{}, err
		}
		switch {
		case env.Video != nil || env.Image != nil:
			return shapeMediaObject, env, nil
		case len(env.Data) > 0:
			return shapeDataArray, env, nil
		case len(env.Output) > 0:
			return shapeOutputObject, env, nil
		case env.URL != "":
			return shapeURLObject, env, nil
		}
		return shapeUnknown, env, nil
	}
	return shapeUnknown, mediaEnvelope{}, fmt.Errorf("unrecognized leading token %q", trimmed[0])
}

// Normalize collapses any known provider response shape into one
// GeneratedMedia. An unrecognized shape is fatal for the invocation: the raw
// payload is preserved in the error so it can be logged and inspected.
func Normalize(raw json.RawMessage) (domain.GeneratedMedia, error) {
	shape, env, err := classify(raw)
	if err != nil {
		return domain.GeneratedMedia{}, domain.NonRetryable(fmt.Errorf("normalize provider response: %v (payload: %s)", err, clip(raw)))
	}

	switch shape {
	case shapeBareString, shapeArray, shapeURLObject:
		return fromEnvelope(env, raw)
	case shapeOutputObject:
		// output is either a bare URL string or a nested object.
		var s string
		if err := json.Unmarshal(env.Output, &s); err == nil {
			inner := mediaEnvelope{URL: s, Cost: env.Cost, Duration: env.Duration}
			return fromEnvelope(inner, raw)
		}
		var nested mediaEnvelope
		if err := json.Unmarshal(env.Output, &nested); err != nil {
			return domain.GeneratedMedia{}, domain.NonRetryable(fmt.Errorf("normalize provider output: %v (payload: %s)", err, clip(raw)))
		}
		if nested.Cost == 0 {
			nested.Cost = env.Cost
		}
		return fromEnvelope(nested, raw)
	case shapeDataArray:
		first := env.Data[0]
		if first.Cost == 0 {
			first.Cost = env.Cost
		}
		return fromEnvelope(first, raw)
	case shapeMediaObject:
		inner := env.Image
		contentType := "image/png"
		if env.Video != nil {
			inner = env.Video
			contentType = "video/mp4"
		}
		if inner.ContentType == "" {
			inner.ContentType = contentType
		}
		if inner.Cost == 0 {
			inner.Cost = env.Cost
		}
		if inner.Duration == 0 {
			inner.Duration = env.Duration
		}
		return fromEnvelope(*inner, raw)
	default:
		return domain.GeneratedMedia{}, domain.NonRetryable(fmt.Errorf("unrecognized provider response shape (payload: %s)", clip(raw)))
	}
}

func fromEnvelope(env mediaEnvelope, raw json.RawMessage) (domain.GeneratedMedia, error) {
	url := strings.TrimSpace(env.URL)
	if url == "" {
		return domain.GeneratedMedia{}, domain.NonRetryable(fmt.Errorf("provider response has no url (payload: %s)", clip(raw)))
	}
	contentType := env.ContentType
	if contentType == "" {
		contentType = guessContentType(url)
	}
	return domain.GeneratedMedia{
		URL:         url,
		ContentType: contentType,
		Cost:        env.Cost,
		Duration:    env.Duration,
	}, nil
}

func guessContentType(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".mp4"), strings.HasSuffix(lower, ".mov"), strings.HasSuffix(lower, ".webm"):
		return "video/mp4"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func clip(raw json.RawMessage) string {
	const max = 512
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
