package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/antonvb/authgate/internal/arcade/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("arcade.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) CreateScore(ctx context.Context, in entity.Score) (err error) {
	ctx, span := s.startSpan(ctx, "CreateScore")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO arcade_scores (id, user_id, game, points, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.UserID, in.Game, in.Points, in.CreatedAt)
	if err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) ListTopScores(ctx context.Context, game string, limit int32) (items []entity.Score, err error) {
	ctx, span := s.startSpan(ctx, "ListTopScores")
	defer func() { s.endSpan(span, err) }()

	query := fmt.Sprintf(`
		SELECT sc.id, sc.user_id, u.email, sc.game, sc.points, sc.created_at
		FROM arcade_scores sc
		JOIN auth_users u ON u.id = sc.user_id
		WHERE sc.game = $1
		ORDER BY sc.points DESC, sc.created_at ASC
		LIMIT %d`, limit)

	rows, err := s.conn.Query(ctx, query, game)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc entity.Score
		if err = rows.Scan(&sc.ID, &sc.UserID, &sc.UserEmail, &sc.Game, &sc.Points, &sc.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		items = append(items, sc)
	}

	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}
