package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/jackc/pgx/v5"
)

func (s *DB) NewUser(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewUser")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err := tx.Exec(ctx, `
		INSERT INTO auth_users (id, email, full_name, role, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.FullName, user.Role, user.Status, user.CreatedBy, user.UpdatedBy,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO auth_user_credentials (user_id, password)
		VALUES ($1, $2)`,
		user.ID, hash,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// NewRefreshToken stores a freshly minted refresh token and retires the login
// challenge that produced it in the same transaction.
func (s *DB) NewRefreshToken(ctx context.Context, ref entity.RefreshToken, challengeID int64) (err error) {
	ctx, span := s.startSpan(ctx, "NewRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err := tx.Exec(ctx, `
		INSERT INTO auth_refresh_tokens (id, user_id, token, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		ref.ID, ref.UserID, ref.Token, ref.ExpiresAt, ref.Metadata,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM auth_challenges WHERE id = $1`, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) PatchUser(ctx context.Context, user entity.PatchUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "PatchUser")
	defer func() { s.endSpan(span, err) }()

	if hash == "" && user.Email == "" && user.FullName == "" && user.Role.IsUnknown() && user.Status.IsUnknown() {
		// nothing to patch
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if hash != "" {
		if _, err := tx.Exec(ctx, `
			UPDATE auth_user_credentials SET password = $2, updated_at = NOW()
			WHERE user_id = $1`,
			user.ID, hash,
		); err != nil {
			return s.mapError(err)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE auth_users SET
			email     = COALESCE(NULLIF($2, ''), email),
			full_name = COALESCE(NULLIF($3, ''), full_name),
			role      = CASE WHEN $4 > 0 THEN $4 ELSE role END,
			status    = CASE WHEN $5 > 0 THEN $5 ELSE status END,
			updated_by = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		user.ID, user.Email, user.FullName, int16(user.Role), int16(user.Status), user.UpdatedBy,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE auth_refresh_tokens SET revoked = TRUE, replaced_by_token_id = $1, updated_at = NOW()
		WHERE id = $2 AND revoked = FALSE`,
		ro.NewID, ro.OldID,
	)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO auth_refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)`,
		ro.NewID, ro.UserID, ro.NewToken, ro.NewExpiresAt,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
