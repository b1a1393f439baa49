package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bizledger/internal/common"
)

// DBTX is the subset of pgxpool.Pool used by repositories. pgx.Tx and
// pgxmock pools satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// errNoRows marks a write that matched nothing.
var errNoRows = pgx.ErrNoRows

// mapError translates storage errors into domain errors.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound(resource)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.Conflictf("%s already exists", resource)
	}
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return common.Conflictf("%s is still referenced by other records", resource)
	}
	return err
}

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// nextSequence bumps and returns the per-organization counter for kind/scope.
func nextSequence(ctx context.Context, db DBTX, orgID any, kind, scope string) (int64, error) {
	query := `
		WITH upsert AS (
			INSERT INTO document_sequences (organization_id, kind, scope, last_value)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (organization_id, kind, scope)
			DO UPDATE SET
				last_value = document_sequences.last_value + 1,
				updated_at = NOW()
			RETURNING last_value
		)
		SELECT last_value FROM upsert`

	var next int64
	if err := db.QueryRow(ctx, query, orgID, kind, scope).Scan(&next); err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", kind, err)
	}
	return next, nil
}
