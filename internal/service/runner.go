package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/convo-eval/internal/core"
	"github.com/target/convo-eval/internal/domain/model"
)

const (
	// DefaultMaxConcurrent bounds the number of in-flight scoring calls per job.
	DefaultMaxConcurrent = 50

	// progressBatchSize is how many drained work items accumulate locally
	// before their counts are pushed into the registry in one AddProgress
	// call. Batching bounds registry-lock contention and log volume under
	// high-throughput fan-out; externally visible progress may lag true
	// progress by up to progressBatchSize-1 items until the final drain.
	progressBatchSize = 100
)

// EvaluationRunner owns the fan-out of (conversation × metric) work items:
// it creates jobs in the registry, executes the work list over a bounded
// worker pool, and drives every job it starts to a terminal state.
type EvaluationRunner struct {
	registry      *JobRegistry
	source        core.ConversationSource
	scorer        core.Scorer
	sink          *ResultBuffer
	metrics       []model.Metric
	maxConcurrent int
	logger        *slog.Logger
}

// EvaluationRunnerOptions groups dependencies for EvaluationRunner.
type EvaluationRunnerOptions struct {
	Registry *JobRegistry            // Required: job lifecycle state
	Source   core.ConversationSource // Required: warehouse reads
	Scorer   core.Scorer             // Required: scoring capability
	Sink     *ResultBuffer           // Required: buffered result writes

	// Metrics is the configured metric list. An empty list is valid: no
	// evaluations are ever applicable.
	Metrics []model.Metric

	// MaxConcurrent bounds the worker pool; defaults to DefaultMaxConcurrent.
	MaxConcurrent int

	Logger *slog.Logger // Optional: structured logger
}

// NewEvaluationRunner constructs a new EvaluationRunner.
func NewEvaluationRunner(opts EvaluationRunnerOptions) (*EvaluationRunner, error) {
	if opts.Registry == nil {
		return nil, errors.New("JobRegistry is required")
	}
	if opts.Source == nil {
		return nil, errors.New("ConversationSource is required")
	}
	if opts.Scorer == nil {
		return nil, errors.New("Scorer is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("ResultBuffer is required")
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "evaluation_runner")
	}

	return &EvaluationRunner{
		registry:      opts.Registry,
		source:        opts.Source,
		scorer:        opts.Scorer,
		sink:          opts.Sink,
		metrics:       opts.Metrics,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}, nil
}

// MustNewEvaluationRunner constructs a new EvaluationRunner and panics on error.
// Use this when you're certain the options are valid (e.g., in bootstrap).
func MustNewEvaluationRunner(opts EvaluationRunnerOptions) *EvaluationRunner {
	r, err := NewEvaluationRunner(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create EvaluationRunner: %v", err))
	}
	return r
}

// Metrics returns the configured metric definitions.
func (r *EvaluationRunner) Metrics() []model.Metric {
	return r.metrics
}

// StartJob synchronously fetches the conversation set, creates the job with
// its full work-list size, and launches the run in the background, returning
// a snapshot of the new job immediately. A job with no conversations is
// created already completed. A data-source failure propagates to the caller
// and no job is created.
func (r *EvaluationRunner) StartJob(ctx context.Context, params model.JobParams) (model.Job, error) {
	conversations, err := r.source.FetchConversations(ctx, core.FetchConversationsParams{
		LookbackDays: params.LookbackDays,
		Recalculate:  params.Recalculate,
	})
	if err != nil {
		return model.Job{}, fmt.Errorf("fetch conversations: %w", err)
	}

	if len(conversations) == 0 {
		job := r.registry.Create(CreateJobParams{Params: params})
		r.registry.SetStatus(job.ID, model.JobStatusCompleted)
		job, _ = r.registry.Get(job.ID)
		return job, nil
	}

	applicable := ApplicableMetrics(conversations, r.metrics)
	job := r.registry.Create(CreateJobParams{
		Params:             params,
		TotalConversations: len(conversations),
		TotalMetrics:       len(applicable),
	})

	// The run outlives the caller's request; detach from its cancellation
	// but keep its values.
	go r.runJob(context.WithoutCancel(ctx), job.ID, params)

	return job, nil
}

// runJob executes a job to a terminal state on a background goroutine. Setup
// errors mark the job failed; the job is never left non-terminal on return.
func (r *EvaluationRunner) runJob(ctx context.Context, jobID string, params model.JobParams) {
	if err := r.run(ctx, jobID, params); err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "evaluation job failed", "job_id", jobID, "error", err)
		}
		r.registry.Fail(jobID, err.Error())
	}
}

// workItem pairs one conversation with one metric for evaluation.
type workItem struct {
	conversation model.Conversation
	metric       model.Metric
}

func (r *EvaluationRunner) run(ctx context.Context, jobID string, params model.JobParams) error {
	r.registry.SetStatus(jobID, model.JobStatusRunning)

	// Re-fetch rather than reuse the StartJob snapshot: the warehouse may
	// have moved since the job total was computed. The post-drain check
	// below reconciles any resulting shortfall.
	conversations, err := r.source.FetchConversations(ctx, core.FetchConversationsParams{
		LookbackDays: params.LookbackDays,
		Recalculate:  params.Recalculate,
	})
	if err != nil {
		return fmt.Errorf("fetch conversations: %w", err)
	}

	applicable := ApplicableMetrics(conversations, r.metrics)
	items := make([]workItem, 0, len(conversations)*len(applicable))
	for _, conv := range conversations {
		for _, metric := range applicable {
			items = append(items, workItem{conversation: conv, metric: metric})
		}
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "processing evaluations",
			"job_id", jobID,
			"evaluations", len(items),
			"max_concurrent", r.maxConcurrent,
		)
	}

	r.drain(ctx, jobID, items)

	if !r.sink.FlushRemaining(ctx) {
		// Flush failures are logged and dropped by the sink; the job still
		// finishes so callers are not stuck polling a non-terminal state.
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "flush remaining results", "job_id", jobID)
		}
	}

	// AddProgress finalizes jobs whose counters reach the total. If the total
	// was computed from a stale conversation count the counters never get
	// there, so reconcile here.
	if job, ok := r.registry.Get(jobID); ok && job.Status == model.JobStatusRunning {
		r.registry.SetStatus(jobID, model.JobStatusCompleted)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "evaluation job finished", "job_id", jobID)
	}
	return nil
}

// drain runs every work item over the bounded pool and folds outcomes into
// the registry in batches of progressBatchSize, flushing the remainder at the
// end. Item failures are counted, never retried, and never abort the job.
func (r *EvaluationRunner) drain(ctx context.Context, jobID string, items []workItem) {
	outcomes := make(chan bool)

	go func() {
		g := new(errgroup.Group)
		g.SetLimit(r.maxConcurrent)
		for _, item := range items {
			g.Go(func() error {
				outcomes <- r.evaluateOne(ctx, item)
				return nil
			})
		}
		_ = g.Wait() // workers report via the channel, never an error
		close(outcomes)
	}()

	var succeeded, failed, drained int
	for ok := range outcomes {
		if ok {
			succeeded++
		} else {
			failed++
		}
		drained++

		if drained%progressBatchSize == 0 {
			r.registry.AddProgress(jobID, succeeded, failed)
			if r.logger != nil {
				r.logger.InfoContext(ctx, "evaluation progress",
					"job_id", jobID, "drained", drained, "total", len(items))
			}
			succeeded, failed = 0, 0
		}
	}

	if succeeded > 0 || failed > 0 {
		r.registry.AddProgress(jobID, succeeded, failed)
	}
}

// evaluateOne scores a single work item and writes exactly one result via the
// buffered sink. Scoring and sink failures are logged and reported as item
// failures; they never escalate.
func (r *EvaluationRunner) evaluateOne(ctx context.Context, item workItem) bool {
	raw, err := r.scorer.Evaluate(ctx, core.ScoreRequest{
		Turns:  item.conversation.Turns,
		Metric: item.metric.Name,
		Prompt: item.metric.Prompt,
	})
	if err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "evaluate conversation",
				"session_id", item.conversation.SessionID,
				"metric", item.metric.Name,
				"error", err,
			)
		}
		return false
	}

	result := model.EvaluationResult{
		AgentID:   item.conversation.AgentID,
		SessionID: item.conversation.SessionID,
		Timestamp: time.Now(),
		Metric:    item.metric.Name,
	}
	if item.metric.Type == model.MetricTypeNumeric {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64); perr == nil {
			result.ValueNumeric = &v
		} else {
			// Keep the raw text rather than dropping a result that merely
			// failed to parse as the declared type.
			result.ValueString = &raw
		}
	} else {
		result.ValueString = &raw
	}

	if !r.sink.Write(ctx, result) {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "persist evaluation result",
				"session_id", item.conversation.SessionID,
				"metric", item.metric.Name,
			)
		}
		return false
	}
	return true
}
