// Package model defines the core data types and structures used throughout the convo-eval service.
package model

import (
	"errors"
	"time"
)

// JobStatus represents the current status of an evaluation job.
type JobStatus string

const (
	// JobStatusStarted indicates a job has been created but work has not begun.
	JobStatusStarted JobStatus = "started"
	// JobStatusRunning indicates a job is currently fanning out evaluations.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates a job finished with zero failed evaluations.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCompletedWithErrors indicates a job finished with at least one failed evaluation.
	JobStatusCompletedWithErrors JobStatus = "completed_with_errors"
	// JobStatusFailed indicates a job-level fatal error aborted the run.
	JobStatusFailed JobStatus = "failed"
	// JobStatusStopped indicates a stop request was accepted while the job was active.
	JobStatusStopped JobStatus = "stopped"
)

// Valid returns true if the JobStatus is one of the known states.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusStarted, JobStatusRunning, JobStatusCompleted,
		JobStatusCompletedWithErrors, JobStatusFailed, JobStatusStopped:
		return true
	}
	return false
}

// Terminal returns true if no further status transition is permitted.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusCompletedWithErrors, JobStatusFailed, JobStatusStopped:
		return true
	}
	return false
}

// Progress tracks evaluation counts for a job. Total is fixed at creation;
// Completed and Failed only ever grow.
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// JobParams are the caller-supplied parameters of an evaluation run.
type JobParams struct {
	// LookbackDays restricts the conversation window; -1 means all time.
	LookbackDays int `json:"last_x_days"`
	// Recalculate re-includes conversations that already have persisted results.
	Recalculate bool `json:"re_calculate"`
	// EvaluationRun tags the run for downstream reporting.
	EvaluationRun bool `json:"evaluation_run"`
}

// Job is one batch evaluation run with its own progress and terminal state.
// Jobs live only in the in-process registry; they are never persisted.
type Job struct {
	ID        string     `json:"job_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    JobStatus  `json:"status"`

	JobParams

	TotalConversations int      `json:"total_conversations"`
	TotalMetrics       int      `json:"total_metrics"`
	TotalEvaluations   int      `json:"total_evaluations"`
	Progress           Progress `json:"progress"`

	// Error holds the message of a job-level fatal failure, never of
	// individual evaluation failures.
	Error string `json:"error,omitempty"`
}

// CreateEvaluationRequest is the payload for starting a new evaluation job.
// LastXDays is a pointer so an omitted field can fall back to the configured
// default lookback window.
type CreateEvaluationRequest struct {
	LastXDays     *int `json:"last_x_days"`
	Recalculate   bool `json:"re_calculate"`
	EvaluationRun bool `json:"evaluation_run"`
}

// Validate validates the CreateEvaluationRequest fields.
func (r *CreateEvaluationRequest) Validate() error {
	if r.LastXDays != nil && *r.LastXDays < -1 {
		return errors.New("last_x_days must be -1 (all time) or >= 0")
	}
	return nil
}

// Params converts the request into job parameters, substituting the given
// default lookback window when the request leaves it unset.
func (r *CreateEvaluationRequest) Params(defaultLookbackDays int) JobParams {
	lookback := defaultLookbackDays
	if r.LastXDays != nil {
		lookback = *r.LastXDays
	}
	return JobParams{
		LookbackDays:  lookback,
		Recalculate:   r.Recalculate,
		EvaluationRun: r.EvaluationRun,
	}
}
