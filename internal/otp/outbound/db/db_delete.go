package db

import (
	"context"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
)

const queryConsumeCode = `
DELETE FROM otp_codes
WHERE id = $1
  AND code_hash = $2
  AND expires_at > $3
  AND attempts < $4`

// ConsumeCode is the single winning path of a verify. The conditional DELETE
// holds the row lock for the duration of the statement, so of any number of
// concurrent calls for the same row at most one reports true.
func (s *DB) ConsumeCode(ctx context.Context, id int64, codeHash string, now time.Time, maxAttempts int16) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeCode")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryConsumeCode, id, codeHash, now, maxAttempts)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

const queryIncrementAttempts = `
UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1`

func (s *DB) IncrementAttempts(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "IncrementAttempts")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryIncrementAttempts, id)
	err = s.mapError(err)
	return err
}

const queryDeleteCode = `
DELETE FROM otp_codes WHERE id = $1`

func (s *DB) DeleteCode(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteCode")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryDeleteCode, id)
	err = s.mapError(err)
	return err
}

const queryDeleteCodesByTarget = `
DELETE FROM otp_codes WHERE email = $1 AND purpose = $2`

func (s *DB) DeleteCodesByTarget(ctx context.Context, email string, purpose entity.Purpose) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteCodesByTarget")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryDeleteCodesByTarget, email, purpose.String())
	err = s.mapError(err)
	return err
}

const queryDeleteExpiredCodes = `
DELETE FROM otp_codes WHERE expires_at < $1`

func (s *DB) DeleteExpiredCodes(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredCodes")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteExpiredCodes, now)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}
