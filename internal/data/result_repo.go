package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/convo-eval/internal/data/pgxutil"
	"github.com/target/convo-eval/internal/domain/model"
	apperrors "github.com/target/convo-eval/internal/errors"
)

// ResultRepo persists evaluation results in batches. It implements
// core.ResultStore and is used only through the buffered sink.
type ResultRepo struct{ DB *sql.DB }

// NewResultRepo creates a new ResultRepo.
func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{DB: db}
}

// InsertResults writes the batch in a single transaction using a pgx batch
// round-trip. The batch either lands fully or not at all. Database failures
// are classified through apperrors.MapDBError; collisions with existing rows
// surface as Conflict errors.
func (r *ResultRepo) InsertResults(ctx context.Context, results []model.EvaluationResult) error {
	if len(results) == 0 {
		return nil
	}

	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
		Fn: func(tx pgx.Tx) error {
			return insertResultsBatch(ctx, tx, results)
		},
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

func insertResultsBatch(ctx context.Context, tx pgx.Tx, results []model.EvaluationResult) error {
	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(`
			INSERT INTO evaluation_results(
				agent_id,
				session_id,
				timestamp,
				metric,
				metric_value_string,
				metric_value_numeric)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, res.AgentID, res.SessionID, res.Timestamp, res.Metric, res.ValueString, res.ValueNumeric)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range results {
		if _, err := br.Exec(); err != nil {
			if cerr := br.Close(); cerr != nil {
				return errors.Join(
					fmt.Errorf("insert result %d: %w", i, err),
					fmt.Errorf("batch close: %w", cerr),
				)
			}
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}
	if cerr := br.Close(); cerr != nil {
		return fmt.Errorf("batch close: %w", cerr)
	}
	return nil
}
