package db

import (
	"context"
	"fmt"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
)

const queryGetTemplateByTriggerChannel = `
SELECT id, trigger_key, category_id, channel, subject, body
FROM notification_templates
WHERE trigger_key = $1 AND channel = $2`

func (s *DB) GetTemplateByTriggerChannel(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) (_ *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplateByTriggerChannel")
	defer func() { s.endSpan(span, err) }()

	var (
		rec        entity.Template
		triggerRaw string
		channelRaw int16
	)
	err = s.conn.QueryRow(ctx, queryGetTemplateByTriggerChannel, tk.String(), int16(ch)).Scan(
		&rec.ID,
		&triggerRaw,
		&rec.CategoryID,
		&channelRaw,
		&rec.Subject,
		&rec.Body,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.TriggerKey = entity.TriggerKey(triggerRaw)
	rec.Channel = entity.Channel(channelRaw)
	return &rec, nil
}

const queryListCategories = `
SELECT id, name, description, is_mandatory
FROM notification_categories
ORDER BY id`

func (s *DB) ListCategories(ctx context.Context) (_ []entity.Category, err error) {
	ctx, span := s.startSpan(ctx, "ListCategories")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListCategories)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var items []entity.Category
	for rows.Next() {
		var rec entity.Category
		if err = rows.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.IsMandatory); err != nil {
			err = s.mapError(err)
			return nil, err
		}
		items = append(items, rec)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return items, nil
}

const queryListUserSettings = `
SELECT category_id, channel, is_enabled
FROM notification_user_settings
WHERE user_id = $1`

func (s *DB) ListUserSettings(ctx context.Context, userID int64) (_ []entity.UserSetting, err error) {
	ctx, span := s.startSpan(ctx, "ListUserSettings")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListUserSettings, userID)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var items []entity.UserSetting
	for rows.Next() {
		var (
			rec        entity.UserSetting
			channelRaw int16
		)
		if err = rows.Scan(&rec.CategoryID, &channelRaw, &rec.IsEnabled); err != nil {
			err = s.mapError(err)
			return nil, err
		}
		rec.Channel = entity.Channel(channelRaw)
		items = append(items, rec)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return items, nil
}

const queryListNotifications = `
SELECT id, category_id, trigger_key, data, metadata, read_at, created_at
FROM notifications
WHERE user_id = $1 AND deleted_at IS NULL%s
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

func (s *DB) ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) (_ []entity.NotificationItem, err error) {
	ctx, span := s.startSpan(ctx, "ListNotifications")
	defer func() { s.endSpan(span, err) }()

	var cond string
	switch status {
	case entity.NotificationStatusUnread:
		cond = " AND read_at IS NULL"
	case entity.NotificationStatusRead:
		cond = " AND read_at IS NOT NULL"
	}

	rows, err := s.conn.Query(ctx, fmt.Sprintf(queryListNotifications, cond), userID, limit, offset)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var items []entity.NotificationItem
	for rows.Next() {
		var (
			rec        entity.NotificationItem
			triggerRaw string
		)
		if err = rows.Scan(
			&rec.ID,
			&rec.CategoryID,
			&triggerRaw,
			&rec.Data,
			&rec.Metadata,
			&rec.ReadAt,
			&rec.CreatedAt,
		); err != nil {
			err = s.mapError(err)
			return nil, err
		}
		rec.TriggerKey = entity.TriggerKey(triggerRaw)
		items = append(items, rec)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return items, nil
}

const queryCountUnreadNotifications = `
SELECT COUNT(*)
FROM notifications
WHERE user_id = $1 AND deleted_at IS NULL AND read_at IS NULL`

func (s *DB) CountUnreadNotifications(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadNotifications")
	defer func() { s.endSpan(span, err) }()

	var count int64
	if err = s.conn.QueryRow(ctx, queryCountUnreadNotifications, userID).Scan(&count); err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return count, nil
}

const queryGetUserContact = `
SELECT u.id, u.email, u.full_name, COALESCE(p.whatsapp_number, '')
FROM identity_users u
LEFT JOIN board_student_profiles p ON p.user_id = u.id
WHERE u.id = $1`

func (s *DB) GetUserContact(ctx context.Context, userID int64) (_ *entity.UserContact, err error) {
	ctx, span := s.startSpan(ctx, "GetUserContact")
	defer func() { s.endSpan(span, err) }()

	var rec entity.UserContact
	err = s.conn.QueryRow(ctx, queryGetUserContact, userID).Scan(
		&rec.ID,
		&rec.Email,
		&rec.FullName,
		&rec.WhatsAppNumber,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &rec, nil
}

const queryListJobAlertRecipients = `
SELECT user_id, whatsapp_number
FROM board_student_profiles
WHERE status = 'published'
  AND alerts_opt_in = TRUE
  AND whatsapp_number <> ''
  AND ($1 = ANY(skills) OR city ILIKE $2)`

func (s *DB) ListJobAlertRecipients(ctx context.Context, category, city string) (_ []entity.JobAlertRecipient, err error) {
	ctx, span := s.startSpan(ctx, "ListJobAlertRecipients")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListJobAlertRecipients, category, city)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var items []entity.JobAlertRecipient
	for rows.Next() {
		var rec entity.JobAlertRecipient
		if err = rows.Scan(&rec.UserID, &rec.WhatsAppNumber); err != nil {
			err = s.mapError(err)
			return nil, err
		}
		items = append(items, rec)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return items, nil
}
