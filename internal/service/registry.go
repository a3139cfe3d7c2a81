// Package service implements the evaluation orchestration core: the in-memory
// job registry, the buffered result sink, and the evaluation runner that fans
// work out across a bounded worker pool.
package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/target/convo-eval/internal/domain/model"
)

// JobRegistry is the in-memory, process-scoped store of evaluation jobs.
// All mutations happen under a single mutex; reads return snapshots, never
// aliases into registry state. Jobs are retained for the life of the process.
type JobRegistry struct {
	mu     sync.Mutex
	jobs   map[string]*model.Job
	logger *slog.Logger
	now    func() time.Time
}

// JobRegistryOptions groups dependencies for JobRegistry.
type JobRegistryOptions struct {
	Logger *slog.Logger     // Optional: structured logger
	Now    func() time.Time // Optional: clock override for tests
}

// NewJobRegistry constructs an empty job registry.
func NewJobRegistry(opts JobRegistryOptions) *JobRegistry {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "job_registry")
	}
	return &JobRegistry{
		jobs:   make(map[string]*model.Job),
		logger: logger,
		now:    now,
	}
}

// CreateJobParams groups parameters for JobRegistry.Create.
type CreateJobParams struct {
	Params             model.JobParams
	TotalConversations int
	TotalMetrics       int
}

// Create allocates a new job in status "started" with a fresh identifier and
// a progress total of conversations × metrics, and returns a snapshot of it.
func (r *JobRegistry) Create(params CreateJobParams) model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := params.TotalConversations * params.TotalMetrics
	job := &model.Job{
		ID:                 uuid.NewString(),
		StartTime:          r.now(),
		Status:             model.JobStatusStarted,
		JobParams:          params.Params,
		TotalConversations: params.TotalConversations,
		TotalMetrics:       params.TotalMetrics,
		TotalEvaluations:   total,
		Progress:           model.Progress{Total: total},
	}
	r.jobs[job.ID] = job

	if r.logger != nil {
		r.logger.Debug("job created",
			"job_id", job.ID,
			"total_conversations", params.TotalConversations,
			"total_metrics", params.TotalMetrics,
			"total_evaluations", total,
		)
	}
	return snapshot(job)
}

// Get returns a snapshot of the job, or false if the identifier is unknown.
func (r *JobRegistry) Get(id string) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	return snapshot(job), true
}

// SetStatus transitions a job's status, stamping the end time when the new
// status is terminal. Terminal states are sinks: calling SetStatus on an
// already-terminal job is a no-op, as is an unknown identifier.
func (r *JobRegistry) SetStatus(id string, status model.JobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	r.transitionLocked(job, status)
}

// AddProgress atomically adds worker outcomes to the job's counters. When the
// counters reach the total, the job self-finalizes to "completed" (no
// failures) or "completed_with_errors". The finalize check fires only from a
// non-terminal state so a stray late batch can never resurrect a stopped or
// failed job.
func (r *JobRegistry) AddProgress(id string, succeeded, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return
	}

	job.Progress.Completed += succeeded
	job.Progress.Failed += failed

	if job.Status.Terminal() {
		return
	}
	if job.Progress.Completed+job.Progress.Failed >= job.Progress.Total {
		status := model.JobStatusCompleted
		if job.Progress.Failed > 0 {
			status = model.JobStatusCompletedWithErrors
		}
		r.transitionLocked(job, status)
	}
}

// Fail force-transitions a job to "failed" with the given message. Used only
// for job-level fatal errors, never for individual evaluation failures.
func (r *JobRegistry) Fail(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Error = message
	r.transitionLocked(job, model.JobStatusFailed)
}

// Stop marks a job as stopped if it is currently "started" or "running" and
// reports whether the transition occurred. Stopping is advisory: in-flight
// workers drain naturally and their progress still accumulates.
func (r *JobRegistry) Stop(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return false
	}
	if job.Status != model.JobStatusStarted && job.Status != model.JobStatusRunning {
		return false
	}
	r.transitionLocked(job, model.JobStatusStopped)
	return true
}

// List returns snapshots of all jobs, newest first. When since is non-nil,
// only jobs created at or after it are returned.
func (r *JobRegistry) List(since *time.Time) []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if since != nil && job.StartTime.Before(*since) {
			continue
		}
		out = append(out, snapshot(job))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

// transitionLocked applies a status change and stamps the end time on entry
// into a terminal state. Callers must hold r.mu and have verified the job is
// not already terminal.
func (r *JobRegistry) transitionLocked(job *model.Job, status model.JobStatus) {
	job.Status = status
	if status.Terminal() {
		end := r.now()
		job.EndTime = &end
	}
	if r.logger != nil {
		r.logger.Debug("job status changed", "job_id", job.ID, "status", status)
	}
}

// snapshot deep-copies a job so callers never share mutable registry state.
func snapshot(job *model.Job) model.Job {
	out := *job
	if job.EndTime != nil {
		end := *job.EndTime
		out.EndTime = &end
	}
	return out
}
