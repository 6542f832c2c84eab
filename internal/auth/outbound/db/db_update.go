package db

import (
	"context"
)

func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE auth_refresh_tokens SET revoked = TRUE, updated_at = NOW()
		WHERE token = $1 AND revoked = FALSE`,
		token,
	)
	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE auth_refresh_tokens SET revoked = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND revoked = FALSE`,
		userID,
	)
	return s.mapError(err)
}

func (s *DB) MarkUserDeleted(ctx context.Context, id, byID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkUserDeleted")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE auth_users SET deleted_at = NOW(), deleted_by = $2, updated_at = NOW(), updated_by = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id, byID,
	)
	return s.mapError(err)
}
