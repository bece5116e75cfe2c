package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/datahub/internal/product"
	"github.com/vvka-141/datahub/pkg/datahub"
)

// Writer upserts rows inside a running transaction and commits every
// commitEvery rows. A commitEvery of zero commits once, on Close.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	db          TxStarter
	logger      datahub.Logger
	commitEvery int

	tx        pgx.Tx
	pending   int
	count     int
	committed int
}

// NewWriter creates a Writer. The first transaction is opened lazily by Upsert.
func NewWriter(db TxStarter, commitEvery int, logger datahub.Logger) *Writer {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if commitEvery < 0 {
		commitEvery = 0
	}
	return &Writer{
		db:          db,
		logger:      logger,
		commitEvery: commitEvery,
	}
}

// Upsert writes one row, committing the batch when it reaches commitEvery rows.
func (w *Writer) Upsert(ctx context.Context, row *product.Row) error {
	if w.tx == nil {
		tx, err := w.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w: %w", datahub.ErrExecutionFailed, err)
		}
		w.tx = tx
	}

	if _, err := w.tx.Exec(ctx, queryUpsertProduct, upsertArgs(row)...); err != nil {
		return fmt.Errorf("upsert product %s: %w: %w", row.ProductID, datahub.ErrExecutionFailed, err)
	}
	w.pending++
	w.count++

	if w.commitEvery > 0 && w.pending >= w.commitEvery {
		return w.commit(ctx)
	}
	return nil
}

// Close commits any pending rows. It is a no-op when nothing is pending.
func (w *Writer) Close(ctx context.Context) error {
	if w.tx == nil {
		return nil
	}
	return w.commit(ctx)
}

// Rollback discards the uncommitted batch. Batches committed earlier stay.
func (w *Writer) Rollback(ctx context.Context) error {
	if w.tx == nil {
		return nil
	}
	tx := w.tx
	w.tx = nil
	w.count -= w.pending
	w.pending = 0
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Count returns the number of rows upserted so far, including the
// uncommitted batch.
func (w *Writer) Count() int {
	return w.count
}

// Committed returns the number of rows in committed batches.
func (w *Writer) Committed() int {
	return w.committed
}

func (w *Writer) commit(ctx context.Context) error {
	tx := w.tx
	w.tx = nil
	if err := tx.Commit(ctx); err != nil {
		w.count -= w.pending
		w.pending = 0
		return fmt.Errorf("commit: %w: %w", datahub.ErrExecutionFailed, err)
	}
	w.committed += w.pending
	w.pending = 0
	w.logger.Verbose("committed %d rows", w.committed)
	return nil
}

func upsertArgs(row *product.Row) []any {
	var lon, lat *float64
	if row.Location != nil {
		lon = &row.Location.Lon
		lat = &row.Location.Lat
	}
	return []any{
		row.ProductID,
		row.ProductName,
		row.ProductNameLanguage,
		row.CompanyBusinessName,
		row.ProductType,
		row.WebshopURLPrimary,
		row.URLPrimary,
		row.Accessible,
		row.UpdatedAt,
		row.PostalCode,
		row.StreetName,
		row.City,
		lon,
		lat,
		[]byte(row.Raw),
	}
}
