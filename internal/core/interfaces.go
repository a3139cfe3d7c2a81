// Package core defines the ports between the evaluation service layer and its
// external collaborators (warehouse, scoring capability, metric configuration).
// Service implementations depend on these interfaces, not on concrete types.
package core

import (
	"context"

	"github.com/target/convo-eval/internal/domain/model"
)

// FetchConversationsParams groups parameters for ConversationSource.FetchConversations.
type FetchConversationsParams struct {
	// LookbackDays restricts how far back conversations are fetched; -1 means unbounded.
	LookbackDays int
	// AgentID optionally narrows the fetch to a single agent. Empty or the
	// "all" wildcard fetches every agent.
	AgentID string
	// Recalculate re-includes sessions that already have persisted results.
	Recalculate bool
}

// ConversationSource fetches recorded conversations from the warehouse.
type ConversationSource interface {
	FetchConversations(ctx context.Context, params FetchConversationsParams) ([]model.Conversation, error)
}

// ScoreRequest groups parameters for Scorer.Evaluate.
type ScoreRequest struct {
	Turns  []model.Turn
	Metric string
	Prompt string
}

// Scorer evaluates one conversation against one metric and returns the raw
// scoring output as text. Implementations may block on network I/O.
type Scorer interface {
	Evaluate(ctx context.Context, req ScoreRequest) (string, error)
}

// ResultStore accepts batched inserts of evaluation results. It is used only
// through the buffered sink, never directly by workers.
type ResultStore interface {
	InsertResults(ctx context.Context, results []model.EvaluationResult) error
}

// MetricsLoader supplies the static metric definition list at process start.
// A load failure yields an empty list rather than an error: a process with no
// metrics simply never finds applicable work.
type MetricsLoader interface {
	Load() []model.Metric
}
