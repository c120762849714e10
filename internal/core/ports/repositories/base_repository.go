package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager opens the database transaction that balance-changing
// writes share. Card rows read with a ...ForUpdate method stay locked until
// Commit or Rollback.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback is safe to defer; it is a no-op after Commit.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
