package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	identityentity "github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
)

const queryGetUserRole = `
SELECT role
FROM identity_users
WHERE id = $1`

func (s *DB) GetUserRole(ctx context.Context, userID int64) (_ identityentity.UserRole, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRole")
	defer func() { s.endSpan(span, err) }()

	var roleRaw string
	if err = s.conn.QueryRow(ctx, queryGetUserRole, userID).Scan(&roleRaw); err != nil {
		err = s.mapError(err)
		return identityentity.UserRoleUnknown, err
	}

	return identityentity.UserRoleFromString(roleRaw), nil
}

const queryUpsertStudentProfile = `
INSERT INTO board_student_profiles
	(user_id, headline, bio, city, skills, hourly_rate_cent, whatsapp_number, alerts_opt_in, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id) DO UPDATE SET
	headline = EXCLUDED.headline,
	bio = EXCLUDED.bio,
	city = EXCLUDED.city,
	skills = EXCLUDED.skills,
	hourly_rate_cent = EXCLUDED.hourly_rate_cent,
	whatsapp_number = EXCLUDED.whatsapp_number,
	alerts_opt_in = EXCLUDED.alerts_opt_in,
	status = EXCLUDED.status,
	updated_at = NOW()`

func (s *DB) UpsertStudentProfile(ctx context.Context, profile entity.StudentProfile) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertStudentProfile")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpsertStudentProfile,
		profile.UserID,
		profile.Headline,
		profile.Bio,
		profile.City,
		profile.Skills,
		profile.HourlyRateCent,
		profile.WhatsAppNumber,
		profile.AlertsOptIn,
		profile.Status.String(),
	)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}

const queryGetStudentProfile = `
SELECT user_id, headline, bio, city, skills, hourly_rate_cent, whatsapp_number, alerts_opt_in, COALESCE(photo_url, ''), status, updated_at
FROM board_student_profiles
WHERE user_id = $1`

func (s *DB) GetStudentProfile(ctx context.Context, userID int64) (_ *entity.StudentProfile, err error) {
	ctx, span := s.startSpan(ctx, "GetStudentProfile")
	defer func() { s.endSpan(span, err) }()

	var (
		rec       entity.StudentProfile
		statusRaw string
	)
	err = s.conn.QueryRow(ctx, queryGetStudentProfile, userID).Scan(
		&rec.UserID,
		&rec.Headline,
		&rec.Bio,
		&rec.City,
		&rec.Skills,
		&rec.HourlyRateCent,
		&rec.WhatsAppNumber,
		&rec.AlertsOptIn,
		&rec.PhotoURL,
		&statusRaw,
		&rec.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Status = entity.ProfileStatusFromString(statusRaw)
	return &rec, nil
}

const queryListStudents = `
SELECT user_id, headline, bio, city, skills, hourly_rate_cent, whatsapp_number, alerts_opt_in, COALESCE(photo_url, ''), status, updated_at
FROM board_student_profiles
WHERE status = 'published'
  AND ($1 = '' OR $1 = ANY(skills))
  AND ($2 = '' OR city ILIKE $2)
ORDER BY updated_at DESC
LIMIT 100`

func (s *DB) ListStudents(ctx context.Context, filter entity.StudentFilter) (_ []entity.StudentProfile, err error) {
	ctx, span := s.startSpan(ctx, "ListStudents")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListStudents, filter.Skill, filter.City)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var profiles []entity.StudentProfile
	for rows.Next() {
		var (
			rec       entity.StudentProfile
			statusRaw string
		)
		if err = rows.Scan(
			&rec.UserID,
			&rec.Headline,
			&rec.Bio,
			&rec.City,
			&rec.Skills,
			&rec.HourlyRateCent,
			&rec.WhatsAppNumber,
			&rec.AlertsOptIn,
			&rec.PhotoURL,
			&statusRaw,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}

		rec.Status = entity.ProfileStatusFromString(statusRaw)
		profiles = append(profiles, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

const queryUpdateStudentPhoto = `
UPDATE board_student_profiles
SET photo_url = $2, updated_at = NOW()
WHERE user_id = $1`

func (s *DB) UpdateStudentPhoto(ctx context.Context, userID int64, photoURL string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateStudentPhoto")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateStudentPhoto, userID, photoURL)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}
