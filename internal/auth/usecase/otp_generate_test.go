package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/antonvb/authgate/internal/auth/entity"
)

func TestGenerateOtp(t *testing.T) {
	t.Run("IssuesCodeOutOfBand", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token := env.loginStandard(t, "user@example.com", "S3cret!pass")

		// Act
		out, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: token})

		// Assert
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if out.SessionID == "" {
			t.Fatalf("expected a session id")
		}
		if out.ExpirySeconds != 120 {
			t.Fatalf("unexpected advisory expiry: %d", out.ExpirySeconds)
		}

		if len(env.pub.otpIssued) != 1 {
			t.Fatalf("expected one delivery event, got %d", len(env.pub.otpIssued))
		}
		ev := env.pub.otpIssued[0]
		if ev.Code != env.code.code || ev.SessionID != out.SessionID {
			t.Fatalf("delivery event does not match issuance: %+v", ev)
		}

		slot, ok := env.slots.slots[1]
		if !ok {
			t.Fatalf("expected an active slot for the user")
		}
		if slot.CodeHash == env.code.code {
			t.Fatalf("code must be stored hashed, not in plaintext")
		}
	})

	t.Run("ReissueReplacesPreviousCode", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token := env.loginStandard(t, "user@example.com", "S3cret!pass")

		first, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: token})
		if err != nil {
			t.Fatalf("first generate failed: %v", err)
		}

		// Act
		second, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: token})

		// Assert
		if err != nil {
			t.Fatalf("second generate failed: %v", err)
		}
		if first.SessionID == second.SessionID {
			t.Fatalf("each issuance must get its own session id")
		}
		if len(env.slots.slots) != 1 {
			t.Fatalf("a user may hold at most one active slot, got %d", len(env.slots.slots))
		}
		if env.slots.slots[1].SessionID != second.SessionID {
			t.Fatalf("the newest issuance must win")
		}
	})

	t.Run("UnknownChallengeToken", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: "bogus"})

		// Assert
		if got := bizMessage(t, err); got != "invalid or expired login session" {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("ExpiredLoginSession", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token := env.loginStandard(t, "user@example.com", "S3cret!pass")

		env.clock.Advance(11 * time.Minute)

		// Act
		_, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: token})

		// Assert
		if got := bizMessage(t, err); got != "invalid or expired login session" {
			t.Fatalf("unexpected message: %q", got)
		}
	})
}
