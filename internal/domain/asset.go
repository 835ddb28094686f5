package domain

import (
	"strings"
	"time"
)

// AssetKind enumerates asset types.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// Asset represents a generated artifact belonging to a completed job. Assets
// are inserted by the worker only after a generation passed validation.
type Asset struct {
	ID              string
	JobID           string
	Kind            AssetKind
	URL             string
	DurationSeconds float64
	CreatedAt       time.Time
}

// GeneratedMedia is one normalized provider result before it is persisted
// as an Asset: where the bytes live, what they are, and what the call cost.
type GeneratedMedia struct {
	URL         string
	ContentType string
	Cost        float64
	Duration    float64
}

// KindForContentType maps a provider content type onto an asset kind. An
// unrecognized or missing content type yields the caller's fallback, since
// providers do not always report one.
func KindForContentType(contentType string, fallback AssetKind) AssetKind {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return AssetKindVideo
	case strings.HasPrefix(contentType, "image/"):
		return AssetKindImage
	}
	return fallback
}
