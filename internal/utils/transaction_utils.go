package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-server/internal/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const transactionTimeout = 10 * time.Second

// SnapshotOptions gives every statement of a read the same view of the database.
var SnapshotOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// BeginTransaction begins a new database transaction with a context deadline.
// It returns the transaction object, the transaction context, and a cancel function for the context.
func BeginTransaction(ctx context.Context, pool interfaces.PgxPoolIface) (pgx.Tx, context.Context, context.CancelFunc, error) {
	return beginTransaction(ctx, pool, pgx.TxOptions{})
}

func beginTransaction(ctx context.Context, pool interfaces.PgxPoolIface, txOptions pgx.TxOptions) (pgx.Tx, context.Context, context.CancelFunc, error) {
	transactionCtx, cancel := context.WithTimeout(ctx, transactionTimeout)

	var tx pgx.Tx
	var err error
	if txOptions == (pgx.TxOptions{}) {
		tx, err = pool.Begin(transactionCtx)
	} else {
		tx, err = pool.BeginTx(transactionCtx, txOptions)
	}
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("begin transaction: %w", err)
	}

	return tx, transactionCtx, cancel, nil
}

// RollbackTransaction rolls back the given transaction. A transaction that was already
// committed or rolled back is ignored.
func RollbackTransaction(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		LogMessageWithFields(ctx, "error", "Error rolling back transaction: "+err.Error())
		return
	}
	log.Debug("Transaction rolled back")
}

// CommitTransaction attempts to commit the given transaction and cancels its context afterwards.
func CommitTransaction(ctx context.Context, tx pgx.Tx, cancel context.CancelFunc) error {
	defer cancel()

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Debug("Transaction committed")
	return nil
}

// WithTransaction runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTransaction(ctx context.Context, pool interfaces.PgxPoolIface, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return withTransaction(ctx, pool, pgx.TxOptions{}, fn)
}

// WithSnapshot runs fn inside a read only repeatable read transaction, so counts and
// the rows they describe agree under concurrent writes.
func WithSnapshot(ctx context.Context, pool interfaces.PgxPoolIface, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return withTransaction(ctx, pool, SnapshotOptions, fn)
}

func withTransaction(ctx context.Context, pool interfaces.PgxPoolIface, txOptions pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, transactionCtx, cancel, err := beginTransaction(ctx, pool, txOptions)
	if err != nil {
		return err
	}

	if err := fn(transactionCtx, tx); err != nil {
		RollbackTransaction(transactionCtx, tx)
		cancel()
		return err
	}

	return CommitTransaction(transactionCtx, tx, cancel)
}
