package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/jackc/pgx/v5/pgtype"
)

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	var out entity.UserLoginInfo
	err = s.conn.QueryRow(ctx, `
		SELECT u.id, u.email, u.role, u.status, c.password
		FROM auth_users u
		JOIN auth_user_credentials c ON c.user_id = u.id
		WHERE u.email = $1 AND u.deleted_at IS NULL`,
		email,
	).Scan(&out.ID, &out.Email, &out.Role, &out.Status, &out.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) GetChallengeUserByToken(ctx context.Context, token string, p entity.ChallengePurpose) (_ *entity.ChallengeUser, err error) {
	ctx, span := s.startSpan(ctx, "GetChallengeUserByToken")
	defer func() { s.endSpan(span, err) }()

	var out entity.ChallengeUser
	err = s.conn.QueryRow(ctx, `
		SELECT c.id, c.purpose, c.expires_at, u.id, u.email, u.role, u.status
		FROM auth_challenges c
		JOIN auth_users u ON u.id = c.user_id
		WHERE c.token = $1 AND c.purpose = $2 AND u.deleted_at IS NULL`,
		token, p,
	).Scan(
		&out.ChallengeID, &out.ChallengePurpose, &out.ChallengeExpiresAt,
		&out.UserID, &out.UserEmail, &out.UserRole, &out.UserStatus,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var (
		out        entity.UserRefreshToken
		replacedBy pgtype.Int8
	)
	err = s.conn.QueryRow(ctx, `
		SELECT u.id, u.email, u.role, u.status,
		       r.id, r.token, r.revoked, r.replaced_by_token_id, r.expires_at
		FROM auth_refresh_tokens r
		JOIN auth_users u ON u.id = r.user_id
		WHERE r.token = $1 AND u.deleted_at IS NULL`,
		token,
	).Scan(
		&out.UserID, &out.UserEmail, &out.UserRole, &out.UserStatus,
		&out.RefreshID, &out.RefreshToken, &out.RefreshRevoked, &replacedBy, &out.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if replacedBy.Valid {
		out.RefreshReplacedByTokenID = &replacedBy.Int64
	}

	return &out, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, email, full_name, role, status, updated_at, deleted_at
		FROM auth_users
		WHERE email = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	return s.scanUser(ctx, query, email)
}

func (s *DB) GetUserByID(ctx context.Context, id int64, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, email, full_name, role, status, updated_at, deleted_at
		FROM auth_users
		WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	return s.scanUser(ctx, query, id)
}

func (s *DB) scanUser(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		out       entity.User
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)
	err := s.conn.QueryRow(ctx, query, arg).Scan(
		&out.ID, &out.Email, &out.FullName, &out.Role, &out.Status, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if updatedAt.Valid {
		out.UpdatedAt = updatedAt.Time
	}
	if deletedAt.Valid {
		out.DeletedAt = &deletedAt.Time
	}

	return &out, nil
}

//nolint:gochecknoglobals // global for fast reuse
var userOrderColumns = map[string]string{
	"email":      "email",
	"full_name":  "full_name",
	"status":     "status",
	"updated_at": "updated_at",
}

func userOrderClause(orderBy, orderDirection string) string {
	col, ok := userOrderColumns[orderBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(orderDirection, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", col, dir)
}

func (s *DB) GetUserList(ctx context.Context, filter entity.UserListFilterData) (_ []entity.User, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetUserList")
	defer func() { s.endSpan(span, err) }()

	where := `WHERE deleted_at IS NULL`
	args := make([]any, 0, 4)

	if filter.IsFilterBySearch {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND (email ILIKE $%d OR full_name ILIKE $%d)`, len(args), len(args))
	}
	if filter.IsFilterByStatus {
		args = append(args, filter.Statuses)
		where += fmt.Sprintf(` AND status = ANY($%d)`, len(args))
	}

	listArgs := append(append([]any{}, args...), filter.Size, filter.Page)
	query := fmt.Sprintf(`
		SELECT id, email, full_name, role, status, updated_at, deleted_at
		FROM auth_users
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		where, userOrderClause(filter.OrderBy, filter.OrderDirection), len(args)+1, len(args)+2,
	)

	rows, err := s.conn.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	users := make([]entity.User, 0, filter.Size)
	for rows.Next() {
		var (
			user      entity.User
			updatedAt pgtype.Timestamptz
			deletedAt pgtype.Timestamptz
		)
		if err = rows.Scan(&user.ID, &user.Email, &user.FullName, &user.Role, &user.Status, &updatedAt, &deletedAt); err != nil {
			return nil, 0, s.mapError(err)
		}
		if updatedAt.Valid {
			user.UpdatedAt = updatedAt.Time
		}
		if deletedAt.Valid {
			user.DeletedAt = &deletedAt.Time
		}

		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	var count int64
	if err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM auth_users `+where, args...).Scan(&count); err != nil {
		return nil, 0, s.mapError(err)
	}

	return users, count, nil
}
