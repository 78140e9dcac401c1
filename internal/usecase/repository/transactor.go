package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var _ Transactor = (*transactorImpl)(nil)

type transactorImpl struct {
	logger *zap.Logger
	db     *pgxpool.Pool
}

func NewTransactor(db *pgxpool.Pool, logger *zap.Logger) *transactorImpl {
	return &transactorImpl{
		db:     db,
		logger: logger,
	}
}

// WithTx runs f inside a transaction stored in the context. Nested calls join
// the outer transaction; only the outermost call commits or rolls back.
func (t *transactorImpl) WithTx(ctx context.Context, f func(ctx context.Context) error) (txErr error) {
	ctxWithTx, tx, owned, err := injectTx(ctx, t.db)

	if err != nil {
		t.logger.Error("Error while injecting transaction.", zap.Error(err))
		return fmt.Errorf("can not inject transaction, error: %w", err)
	}

	if owned {
		defer func() {
			if txErr != nil {
				if err := tx.Rollback(ctxWithTx); err != nil {
					t.logger.Error("Error while doing rollback.", zap.Error(err))
				}
				return
			}

			if txErr = tx.Commit(ctxWithTx); txErr != nil {
				t.logger.Error("Error while commiting transaction.", zap.Error(txErr))
			}
		}()
	}

	if err = f(ctxWithTx); err != nil {
		t.logger.Debug("Error while executing function.", zap.Error(err))
		return fmt.Errorf("function execution error: %w", err)
	}

	return nil
}

func injectTx(ctx context.Context, pool *pgxpool.Pool) (context.Context, pgx.Tx, bool, error) {
	if tx, err := extractTx(ctx); err == nil {
		return ctx, tx, false, nil
	}

	tx, err := pool.Begin(ctx)

	if err != nil {
		return nil, nil, false, err
	}

	return context.WithValue(ctx, txInjector{}, tx), tx, true, nil
}

type txInjector struct{}

var ErrTxNotFound = errors.New("transaction is not found in context")

func extractTx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txInjector{}).(pgx.Tx)

	if !ok {
		return nil, ErrTxNotFound
	}

	return tx, nil
}
