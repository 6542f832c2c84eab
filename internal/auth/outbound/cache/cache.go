package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Cache holds the one-time-code slots. Each user has at most one slot under a
// fixed key, so issuing a new code always replaces the previous one.
type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{
		client: client,
		ins:    ins,
	}
}

func (s *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.outbound.cache").Start(ctx, name)
}

func (s *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func slotKey(userID int64) string {
	return fmt.Sprintf("otp:challenge:%d", userID)
}

func (s *Cache) Put(ctx context.Context, userID int64, ch entity.OtpChallenge, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "Put")
	defer func() { s.endSpan(span, err) }()

	raw, err := json.Marshal(ch)
	if err != nil {
		return err
	}

	err = s.client.Set(ctx, slotKey(userID), raw, ttl).Err()
	return err
}

// Take removes the slot and returns it in one round trip. A nil slot with a
// nil error means the user has no active slot.
func (s *Cache) Take(ctx context.Context, userID int64) (_ *entity.OtpChallenge, err error) {
	ctx, span := s.startSpan(ctx, "Take")
	defer func() { s.endSpan(span, err) }()

	raw, err := s.client.GetDel(ctx, slotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ch entity.OtpChallenge
	if err = json.Unmarshal(raw, &ch); err != nil {
		return nil, err
	}

	return &ch, nil
}

// Restore puts a taken slot back so the user may retry. SetNX keeps a slot
// issued concurrently from being clobbered by the stale one.
func (s *Cache) Restore(ctx context.Context, userID int64, ch entity.OtpChallenge, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "Restore")
	defer func() { s.endSpan(span, err) }()

	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(ch)
	if err != nil {
		return err
	}

	err = s.client.SetNX(ctx, slotKey(userID), raw, ttl).Err()
	return err
}
