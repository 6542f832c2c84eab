package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/antonvb/authgate/internal/delivery/entity"
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
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("delivery.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) CreateDeliveryRecord(ctx context.Context, in entity.DeliveryRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryRecord")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO delivery_records (id, user_id, trigger_key, channel, recipient, status, provider_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.UserID, in.TriggerKey, in.Channel, in.Recipient, in.Status, in.ProviderResponse,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) UpdateDeliveryRecordStatus(ctx context.Context, in entity.UpdateDeliveryRecord) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryRecordStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE delivery_records SET status = $2, provider_response = $3, updated_at = NOW()
		WHERE id = $1`,
		in.ID, in.Status, in.ProviderResponse,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) ListDeliveryRecords(ctx context.Context, filter entity.DeliveryListFilter) (_ []entity.DeliveryRecord, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListDeliveryRecords")
	defer func() { s.endSpan(span, err) }()

	where := `WHERE TRUE`
	args := make([]any, 0, 3)

	if filter.IsFilterByUser {
		args = append(args, filter.UserID)
		where += ` AND user_id = $1`
	}

	listArgs := append(append([]any{}, args...), filter.Size, filter.Page)
	query := fmt.Sprintf(`
		SELECT id, user_id, trigger_key, channel, recipient, status, provider_response, created_at
		FROM delivery_records
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)

	rows, err := s.conn.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	records := make([]entity.DeliveryRecord, 0, filter.Size)
	for rows.Next() {
		var rec entity.DeliveryRecord
		if err = rows.Scan(
			&rec.ID, &rec.UserID, &rec.TriggerKey, &rec.Channel,
			&rec.Recipient, &rec.Status, &rec.ProviderResponse, &rec.CreatedAt,
		); err != nil {
			return nil, 0, s.mapError(err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	var count int64
	if err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM delivery_records `+where, args...).Scan(&count); err != nil {
		return nil, 0, s.mapError(err)
	}

	return records, count, nil
}
