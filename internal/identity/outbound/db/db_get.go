package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
)

const queryGetUserByEmail = `
SELECT id, email, full_name, role, status, created_at, updated_at
FROM identity_users
WHERE email = $1`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var (
		rec     entity.User
		roleRaw string
	)
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).Scan(
		&rec.ID,
		&rec.Email,
		&rec.FullName,
		&roleRaw,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Role = entity.UserRoleFromString(roleRaw)
	return &rec, nil
}

const queryGetUserByID = `
SELECT id, email, full_name, role, status, created_at, updated_at
FROM identity_users
WHERE id = $1`

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var (
		rec     entity.User
		roleRaw string
	)
	err = s.conn.QueryRow(ctx, queryGetUserByID, id).Scan(
		&rec.ID,
		&rec.Email,
		&rec.FullName,
		&roleRaw,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Role = entity.UserRoleFromString(roleRaw)
	return &rec, nil
}

const queryGetUserLoginInfo = `
SELECT id, email, role, status, password_hash
FROM identity_users
WHERE email = $1`

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	var (
		rec     entity.UserLoginInfo
		roleRaw string
	)
	err = s.conn.QueryRow(ctx, queryGetUserLoginInfo, email).Scan(
		&rec.ID,
		&rec.Email,
		&roleRaw,
		&rec.Status,
		&rec.Password,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Role = entity.UserRoleFromString(roleRaw)
	return &rec, nil
}

const queryGetUserRefreshToken = `
SELECT rt.id, rt.user_id, u.email, u.status, rt.expires_at, rt.revoked
FROM identity_refresh_tokens rt
JOIN identity_users u ON u.id = rt.user_id
WHERE rt.token = $1`

func (s *DB) GetUserRefreshToken(ctx context.Context, tokenHash string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rec entity.UserRefreshToken
	err = s.conn.QueryRow(ctx, queryGetUserRefreshToken, tokenHash).Scan(
		&rec.TokenID,
		&rec.UserID,
		&rec.UserEmail,
		&rec.UserStatus,
		&rec.ExpiresAt,
		&rec.Revoked,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &rec, nil
}
