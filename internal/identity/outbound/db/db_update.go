package db

import "context"

const queryUpdateUserPassword = `
UPDATE identity_users
SET password_hash = $2, updated_at = NOW()
WHERE id = $1`

func (s *DB) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserPassword")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateUserPassword, userID, passwordHash)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}

const queryRevokeRefreshToken = `
UPDATE identity_refresh_tokens
SET revoked = TRUE
WHERE token = $1 AND revoked = FALSE`

func (s *DB) RevokeRefreshToken(ctx context.Context, tokenHash string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryRevokeRefreshToken, tokenHash)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}
