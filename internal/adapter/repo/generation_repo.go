package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"merchmagic/internal/domain"
	"merchmagic/internal/infra"
	"merchmagic/internal/sqlinline"
)

// GenerationSummary aggregates audited attempts over a window.
type GenerationSummary struct {
	Since     time.Time `json:"since"`
	Succeeded int64     `json:"succeeded"`
	Failed    int64     `json:"failed"`
}

// GenerationRepositoryPG keeps an audit trail of remote mockup calls.
type GenerationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewGenerationRepository creates a repository backed by PostgreSQL.
func NewGenerationRepository(sql infra.SQLExecutor) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{sql: sql}
}

// Record inserts one attempt. A missing ID is generated.
func (r *GenerationRepositoryPG) Record(ctx context.Context, attempt domain.GenerationAttempt) error {
	if r == nil || r.sql == nil {
		return errors.New("repo: generation repository not configured")
	}
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = time.Now().UTC()
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertGenerationAttempt,
		attempt.ID,
		attempt.SessionID,
		string(attempt.Operation),
		attempt.TemplateID,
		attempt.Instruction,
		attempt.Model,
		attempt.Succeeded,
		attempt.Error,
		attempt.StartedAt,
		attempt.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("repo: record generation attempt: %w", err)
	}
	return nil
}

// SummarySince counts successful and failed attempts started at or after since.
func (r *GenerationRepositoryPG) SummarySince(ctx context.Context, since time.Time) (*GenerationSummary, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QCountGenerationAttemptsSince, since)
	summary := &GenerationSummary{Since: since}
	if err := row.Scan(&summary.Succeeded, &summary.Failed); err != nil {
		if infra.IsNoRows(err) {
			return summary, nil
		}
		return nil, fmt.Errorf("repo: summarize generation attempts: %w", err)
	}
	return summary, nil
}
