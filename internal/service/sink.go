package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/target/convo-eval/internal/core"
	"github.com/target/convo-eval/internal/domain/model"
)

// DefaultBufferSize is the number of buffered results that triggers a flush.
const DefaultBufferSize = 50

// ResultBuffer coalesces evaluation results into batched writes against the
// durable store. It flushes automatically when the buffer reaches its size
// threshold and on demand via FlushRemaining. The buffer and its flush share
// one mutex so a threshold flush and a concurrent append never interleave and
// the same records are never flushed twice.
//
// Delivery is best-effort: a failed batch is logged and dropped, not retried.
type ResultBuffer struct {
	store  core.ResultStore
	size   int
	logger *slog.Logger

	mu  sync.Mutex
	buf []model.EvaluationResult
}

// ResultBufferOptions groups dependencies for ResultBuffer.
type ResultBufferOptions struct {
	Store  core.ResultStore // Required: durable backing store
	Size   int              // Optional: flush threshold; defaults to DefaultBufferSize
	Logger *slog.Logger     // Optional: structured logger
}

// NewResultBuffer constructs a new ResultBuffer.
func NewResultBuffer(opts ResultBufferOptions) (*ResultBuffer, error) {
	if opts.Store == nil {
		return nil, errors.New("ResultStore is required")
	}
	size := opts.Size
	if size <= 0 {
		size = DefaultBufferSize
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "result_buffer")
	}
	return &ResultBuffer{
		store:  opts.Store,
		size:   size,
		logger: logger,
	}, nil
}

// Write appends a result to the buffer, flushing synchronously if the buffer
// has reached the size threshold. It reports whether the write (and any
// triggered flush) succeeded; failures never propagate past this boundary.
func (b *ResultBuffer) Write(ctx context.Context, result model.EvaluationResult) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, result)
	if len(b.buf) >= b.size {
		return b.flushLocked(ctx)
	}
	return true
}

// FlushRemaining flushes any buffered results regardless of the threshold.
// A call with an empty buffer is a successful no-op.
func (b *ResultBuffer) FlushRemaining(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked(ctx)
}

// flushLocked writes all buffered records in a single store call. The buffer
// is cleared before the write so a failed batch is dropped rather than
// retried on the next flush. Callers must hold b.mu.
func (b *ResultBuffer) flushLocked(ctx context.Context) bool {
	if len(b.buf) == 0 {
		return true
	}

	batch := b.buf
	b.buf = nil

	if err := b.store.InsertResults(ctx, batch); err != nil {
		if b.logger != nil {
			b.logger.ErrorContext(ctx, "flush result batch", "batch_size", len(batch), "error", err)
		}
		return false
	}
	return true
}
