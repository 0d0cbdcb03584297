package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
)

const queryGetLatestCode = `
SELECT id, email, purpose, code_hash, attempts, created_at, expires_at
FROM otp_codes
WHERE email = $1 AND purpose = $2
ORDER BY created_at DESC
LIMIT 1`

func (s *DB) GetLatestCode(ctx context.Context, email string, purpose entity.Purpose) (_ *entity.OneTimeCode, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestCode")
	defer func() { s.endSpan(span, err) }()

	var (
		rec        entity.OneTimeCode
		purposeRaw string
	)
	err = s.conn.QueryRow(ctx, queryGetLatestCode, email, purpose.String()).Scan(
		&rec.ID,
		&rec.Email,
		&purposeRaw,
		&rec.CodeHash,
		&rec.Attempts,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Purpose = entity.PurposeFromString(purposeRaw)
	return &rec, nil
}
