// Package data provides warehouse access for the convo-eval service.
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/target/convo-eval/internal/core"
	"github.com/target/convo-eval/internal/domain/model"
)

// ConversationRepo fetches recorded conversations from the warehouse tables.
// It implements core.ConversationSource.
type ConversationRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB, logger *slog.Logger) *ConversationRepo {
	if logger != nil {
		logger = logger.With("component", "conversation_repo")
	}
	return &ConversationRepo{DB: db, logger: logger}
}

// buildConversationQuery assembles the extraction query. Lookback of -1 means
// unbounded; recalculate=false excludes sessions that already have persisted
// results.
func buildConversationQuery(params core.FetchConversationsParams) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(`
		SELECT project_id, agent_id, session_id, turns, now() AS extraction_timestamp
		FROM conversations
		WHERE 1=1`)

	if params.AgentID != "" && params.AgentID != model.AgentWildcard {
		args = append(args, params.AgentID)
		sb.WriteString(" AND agent_id = $" + strconv.Itoa(len(args)))
	}
	if params.LookbackDays >= 0 {
		args = append(args, params.LookbackDays)
		sb.WriteString(" AND created_at >= now() - ($" + strconv.Itoa(len(args)) + " * interval '1 day')")
	}
	if !params.Recalculate {
		sb.WriteString(`
		AND NOT EXISTS (
			SELECT 1 FROM evaluation_results er
			WHERE er.session_id = conversations.session_id
		)`)
	}

	sb.WriteString("\n\t\tORDER BY session_id")
	return sb.String(), args
}

// FetchConversations returns the conversations matching the given parameters,
// with their turn lists decoded from the stored JSON.
func (r *ConversationRepo) FetchConversations(
	ctx context.Context,
	params core.FetchConversationsParams,
) ([]model.Conversation, error) {
	query, args := buildConversationQuery(params)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []model.Conversation
	for rows.Next() {
		var conv model.Conversation
		var turnsJSON []byte
		if err := rows.Scan(&conv.ProjectID, &conv.AgentID, &conv.SessionID, &turnsJSON, &conv.ExtractedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if err := json.Unmarshal(turnsJSON, &conv.Turns); err != nil {
			return nil, fmt.Errorf("decode turns for session %s: %w", conv.SessionID, err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "retrieved conversations for evaluation", "count", len(conversations))
	}
	return conversations, nil
}
