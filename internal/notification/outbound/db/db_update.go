package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
)

const queryMarkNotificationRead = `
UPDATE notifications
SET read_at = NOW(), updated_at = NOW()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL AND read_at IS NULL`

func (s *DB) MarkNotificationRead(ctx context.Context, userID, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationRead")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryMarkNotificationRead, notificationID, userID)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

const queryMarkNotificationsReadAll = `
UPDATE notifications
SET read_at = NOW(), updated_at = NOW()
WHERE user_id = $1 AND deleted_at IS NULL AND read_at IS NULL`

func (s *DB) MarkNotificationsReadAll(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationsReadAll")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryMarkNotificationsReadAll, userID)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

const queryUpdateLogStatus = `
UPDATE notification_logs
SET status = $1, error = $2, updated_at = NOW()
WHERE id = $3`

func (s *DB) UpdateLogStatus(ctx context.Context, u entity.UpdateLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateLogStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateLogStatus, int16(u.Status), u.Error, u.ID)
	err = s.mapError(err)
	return err
}
