package domain

import (
	"fmt"
	"time"
)

// OutputFormat enumerates the content formats the pipeline can produce.
type OutputFormat string

const (
	FormatImageKit   OutputFormat = "image_kit"
	FormatMotionPost OutputFormat = "motion_post"
	FormatSpotVideo  OutputFormat = "spot_video"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Transitions are monotonic: pending -> processing -> {completed,failed}.
// A violation is a programming error, not a runtime condition.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusProcessing
	case JobStatusProcessing:
		return next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobInput is the request payload carried by a queue message. It is produced
// by the API layer and consumed verbatim by the worker.
type JobInput struct {
	Brand         string            `json:"brand" validate:"required"`
	Format        OutputFormat      `json:"format" validate:"required,oneof=image_kit motion_post spot_video"`
	Objective     string            `json:"objective" validate:"required"`
	HookType      string            `json:"hook_type"`
	ModelOverride string            `json:"model_override"`
	Variables     map[string]string `json:"variables"`
}

// Job encapsulates the persisted lifecycle of one content-generation request.
// Jobs are created by the API layer, mutated exclusively by the worker, and
// never deleted.
type Job struct {
	ID           string
	Status       JobStatus
	Brand        string
	Format       OutputFormat
	Objective    string
	HookType     string
	Model        string
	Payload      []byte
	Cost         *float64
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transition mutates the job status after checking legality.
func (j *Job) Transition(next JobStatus) error {
	if !j.Status.CanTransition(next) {
		return fmt.Errorf("illegal job transition %s -> %s", j.Status, next)
	}
	j.Status = next
	return nil
}
