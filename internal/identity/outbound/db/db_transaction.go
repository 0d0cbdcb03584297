package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
)

const queryRevokeRefreshTokenByID = `
UPDATE identity_refresh_tokens
SET revoked = TRUE
WHERE id = $1 AND revoked = FALSE`

// RotateRefreshToken revokes the presented token and writes its replacement
// in one transaction, so a crash between the two cannot strand the session.
func (s *DB) RotateRefreshToken(ctx context.Context, oldTokenID int64, next entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, queryRevokeRefreshTokenByID, oldTokenID); err != nil {
		err = s.mapError(err)
		return err
	}

	if _, err = tx.Exec(ctx, queryCreateRefreshToken,
		next.ID,
		next.UserID,
		next.Token,
		next.ExpiresAt,
		next.Revoked,
	); err != nil {
		err = s.mapError(err)
		return err
	}

	return tx.Commit(ctx)
}
