package repository

import (
	"context"

	"github.com/nvalden/arsenal/internal/logger"
)

// rollbacker is satisfied by every transaction surface in this package.
type rollbacker interface {
	Rollback(ctx context.Context) error
}

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx rollbacker) {
	if err := tx.Rollback(ctx); err != nil {
		// pgx returns ErrTxClosed after a successful commit; that is not noise worth logging
		if err.Error() != "tx is closed" {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
