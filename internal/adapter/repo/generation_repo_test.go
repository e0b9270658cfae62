package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"merchmagic/internal/domain"
)

type stubExecutor struct {
	execQuery string
	execArgs  []any
	execErr   error
	row       pgx.Row
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execQuery = query
	s.execArgs = args
	return pgconn.CommandTag{}, s.execErr
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return s.row
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

func TestRecordPassesAttemptFields(t *testing.T) {
	exec := &stubExecutor{}
	repo := NewGenerationRepository(exec)
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	err := repo.Record(context.Background(), domain.GenerationAttempt{
		SessionID:   "sess-1",
		Operation:   domain.OperationEdit,
		TemplateID:  "mug",
		Instruction: "Add a retro vintage filter",
		Model:       "gemini-2.5-flash-image",
		Succeeded:   false,
		Error:       "no image",
		StartedAt:   started,
		Duration:    1500 * time.Millisecond,
	})
	require.NoError(t, err)
	require.True(t, strings.Contains(exec.execQuery, "insert into generation_attempts"))
	require.Len(t, exec.execArgs, 10)
	require.NotEmpty(t, exec.execArgs[0])
	require.Equal(t, "sess-1", exec.execArgs[1])
	require.Equal(t, "edit", exec.execArgs[2])
	require.Equal(t, false, exec.execArgs[6])
	require.Equal(t, started, exec.execArgs[8])
	require.Equal(t, int64(1500), exec.execArgs[9])
}

func TestRecordWrapsExecError(t *testing.T) {
	boom := errors.New("boom")
	repo := NewGenerationRepository(&stubExecutor{execErr: boom})
	err := repo.Record(context.Background(), domain.GenerationAttempt{SessionID: "s"})
	require.ErrorIs(t, err, boom)
}

func TestSummarySince(t *testing.T) {
	exec := &stubExecutor{row: stubRow{scan: func(dest ...any) error {
		*dest[0].(*int64) = 7
		*dest[1].(*int64) = 2
		return nil
	}}}
	since := time.Now().Add(-24 * time.Hour)
	summary, err := NewGenerationRepository(exec).SummarySince(context.Background(), since)
	require.NoError(t, err)
	require.Equal(t, int64(7), summary.Succeeded)
	require.Equal(t, int64(2), summary.Failed)
	require.Equal(t, since, summary.Since)
}
