package db

import "context"

const querySoftDeleteNotification = `
UPDATE notifications
SET deleted_at = NOW(), updated_at = NOW()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

func (s *DB) SoftDeleteNotification(ctx context.Context, userID, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "SoftDeleteNotification")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, querySoftDeleteNotification, notificationID, userID)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
