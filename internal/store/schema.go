package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// TxStarter begins transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EnsureSchema creates the postgis extension, the products table and its
// indexes when missing. All statements run in one transaction.
func EnsureSchema(ctx context.Context, db TxStarter) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w: %w", datahub.ErrExecutionFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w: %w", datahub.ErrExecutionFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w: %w", datahub.ErrExecutionFailed, err)
	}
	return nil
}
