package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
)

const queryCreateUser = `
INSERT INTO identity_users (id, email, full_name, role, password_hash, status)
VALUES ($1, $2, $3, $4, $5, $6)`

func (s *DB) CreateUser(ctx context.Context, user entity.NewUser, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateUser,
		user.ID,
		user.Email,
		user.FullName,
		user.Role.String(),
		passwordHash,
		user.Status,
	)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}

const queryCreateRefreshToken = `
INSERT INTO identity_refresh_tokens (id, user_id, token, expires_at, revoked)
VALUES ($1, $2, $3, $4, $5)`

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateRefreshToken,
		in.ID,
		in.UserID,
		in.Token,
		in.ExpiresAt,
		in.Revoked,
	)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}
