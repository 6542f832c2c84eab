package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCache(client, instrument.NewNoop()), srv
}

func sampleChallenge(session string) entity.OtpChallenge {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	return entity.OtpChallenge{
		SessionID: session,
		CodeHash:  "$argon2id$fake-hash",
		IssuedAt:  now,
		ExpiresAt: now.Add(2 * time.Minute),
	}
}

func TestCache(t *testing.T) {
	t.Run("PutThenTake", func(t *testing.T) {
		// Arrange
		c, _ := newTestCache(t)
		ctx := context.Background()

		if err := c.Put(ctx, 7, sampleChallenge("sess-1"), time.Minute); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		// Act
		got, err := c.Take(ctx, 7)

		// Assert
		if err != nil {
			t.Fatalf("take failed: %v", err)
		}
		if got == nil || got.SessionID != "sess-1" {
			t.Fatalf("unexpected slot: %+v", got)
		}
	})

	t.Run("TakeIsOneShot", func(t *testing.T) {
		// Arrange
		c, _ := newTestCache(t)
		ctx := context.Background()

		if err := c.Put(ctx, 7, sampleChallenge("sess-1"), time.Minute); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if _, err := c.Take(ctx, 7); err != nil {
			t.Fatalf("first take failed: %v", err)
		}

		// Act
		got, err := c.Take(ctx, 7)

		// Assert
		if err != nil {
			t.Fatalf("second take failed: %v", err)
		}
		if got != nil {
			t.Fatalf("a taken slot must be gone, got %+v", got)
		}
	})

	t.Run("PutOverwritesPreviousSlot", func(t *testing.T) {
		// Arrange
		c, _ := newTestCache(t)
		ctx := context.Background()

		if err := c.Put(ctx, 7, sampleChallenge("sess-1"), time.Minute); err != nil {
			t.Fatalf("first put failed: %v", err)
		}
		if err := c.Put(ctx, 7, sampleChallenge("sess-2"), time.Minute); err != nil {
			t.Fatalf("second put failed: %v", err)
		}

		// Act
		got, err := c.Take(ctx, 7)

		// Assert
		if err != nil {
			t.Fatalf("take failed: %v", err)
		}
		if got == nil || got.SessionID != "sess-2" {
			t.Fatalf("the newest slot must win, got %+v", got)
		}
	})

	t.Run("SlotExpires", func(t *testing.T) {
		// Arrange
		c, srv := newTestCache(t)
		ctx := context.Background()

		if err := c.Put(ctx, 7, sampleChallenge("sess-1"), time.Minute); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		srv.FastForward(61 * time.Second)

		// Act
		got, err := c.Take(ctx, 7)

		// Assert
		if err != nil {
			t.Fatalf("take failed: %v", err)
		}
		if got != nil {
			t.Fatalf("an expired slot must be gone, got %+v", got)
		}
	})

	t.Run("RestoreFillsEmptySlotOnly", func(t *testing.T) {
		// Arrange
		c, _ := newTestCache(t)
		ctx := context.Background()

		if err := c.Restore(ctx, 7, sampleChallenge("sess-1"), time.Minute); err != nil {
			t.Fatalf("restore into empty failed: %v", err)
		}
		if err := c.Restore(ctx, 7, sampleChallenge("sess-0"), time.Minute); err != nil {
			t.Fatalf("restore over occupied failed: %v", err)
		}

		// Act
		got, err := c.Take(ctx, 7)

		// Assert
		if err != nil {
			t.Fatalf("take failed: %v", err)
		}
		if got == nil || got.SessionID != "sess-1" {
			t.Fatalf("restore must not clobber an occupied slot, got %+v", got)
		}
	})

	t.Run("RestoreSkipsNonPositiveTTL", func(t *testing.T) {
		// Arrange
		c, _ := newTestCache(t)
		ctx := context.Background()

		// Act
		if err := c.Restore(ctx, 7, sampleChallenge("sess-1"), 0); err != nil {
			t.Fatalf("restore failed: %v", err)
		}

		// Assert
		got, err := c.Take(ctx, 7)
		if err != nil {
			t.Fatalf("take failed: %v", err)
		}
		if got != nil {
			t.Fatalf("nothing should be stored for a dead ttl, got %+v", got)
		}
	})
}
