package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
)

// CreateNotificationWithLog inserts the in-app row and its queued delivery
// log in one transaction, so a delivery can never be logged against a
// notification that was not stored.
func (s *DB) CreateNotificationWithLog(ctx context.Context, n entity.CreateNotification, l entity.CreateLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateNotificationWithLog")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, queryCreateNotification,
		n.ID,
		n.UserID,
		n.CategoryID,
		n.TriggerKey.String(),
		n.Data,
		n.Metadata,
	); err != nil {
		err = s.mapError(err)
		return 0, err
	}

	var logID int64
	if err = tx.QueryRow(ctx, queryCreateLog,
		l.NotificationID,
		int16(l.Channel),
		l.Recipient,
		l.TriggerKey.String(),
		int16(l.Status),
	).Scan(&logID); err != nil {
		err = s.mapError(err)
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return logID, nil
}

const queryUpsertUserSetting = `
INSERT INTO notification_user_settings (user_id, category_id, channel, is_enabled)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, category_id, channel)
DO UPDATE SET is_enabled = EXCLUDED.is_enabled, updated_at = NOW()`

func (s *DB) UpsertUserSettings(ctx context.Context, userID int64, settings []entity.UserSetting) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertUserSettings")
	defer func() { s.endSpan(span, err) }()

	if len(settings) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	for _, setting := range settings {
		if _, err = tx.Exec(ctx, queryUpsertUserSetting,
			userID,
			setting.CategoryID,
			int16(setting.Channel),
			setting.IsEnabled,
		); err != nil {
			err = s.mapError(err)
			return err
		}
	}

	return tx.Commit(ctx)
}
