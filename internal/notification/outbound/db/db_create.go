package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
)

const queryCreateNotification = `
INSERT INTO notifications (id, user_id, category_id, trigger_key, data, metadata)
VALUES ($1, $2, $3, $4, $5, $6)`

func (s *DB) CreateNotification(ctx context.Context, data entity.CreateNotification) (err error) {
	ctx, span := s.startSpan(ctx, "CreateNotification")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateNotification,
		data.ID,
		data.UserID,
		data.CategoryID,
		data.TriggerKey.String(),
		data.Data,
		data.Metadata,
	)
	err = s.mapError(err)
	return err
}

const queryCreateLog = `
INSERT INTO notification_logs (notification_id, channel, recipient, trigger_key, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

func (s *DB) CreateLog(ctx context.Context, l entity.CreateLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateLog")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, queryCreateLog,
		l.NotificationID,
		int16(l.Channel),
		l.Recipient,
		l.TriggerKey.String(),
		int16(l.Status),
	).Scan(&id)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return id, nil
}
