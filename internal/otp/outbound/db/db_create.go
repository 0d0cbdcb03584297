package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
)

const queryCreateCode = `
INSERT INTO otp_codes (id, email, purpose, code_hash, attempts, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *DB) CreateCode(ctx context.Context, code entity.OneTimeCode) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCode")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateCode,
		code.ID,
		code.Email,
		code.Purpose.String(),
		code.CodeHash,
		code.Attempts,
		code.CreatedAt,
		code.ExpiresAt,
	)
	err = s.mapError(err)
	return err
}
