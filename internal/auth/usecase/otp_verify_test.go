package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/antonvb/authgate/internal/auth/entity"
)

const rejectMessage = "invalid or expired code"

// issueCode walks a standard user through login and code issuance, returning
// the challenge token and session id for verification.
func issueCode(t *testing.T, env *testEnv) (string, string) {
	t.Helper()

	token := env.loginStandard(t, "user@example.com", "S3cret!pass")
	out, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: token})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	return token, out.SessionID
}

func TestVerifyOtp(t *testing.T) {
	t.Run("GrantsAccessOnFreshCode", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		// Act
		out, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           env.code.code,
		})

		// Assert
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if out.AccessToken == "" || out.RefreshToken == "" {
			t.Fatalf("expected tokens, got %+v", out)
		}
		if out.RedirectTo != "/dashboard" {
			t.Fatalf("unexpected redirect: %q", out.RedirectTo)
		}
		if len(env.db.retiredChallenges) != 1 {
			t.Fatalf("the login challenge must be retired on success")
		}
	})

	t.Run("SameCodeCannotBeUsedTwice", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		in := VerifyOtpInput{ChallengeToken: token, SessionID: session, Code: env.code.code}
		if _, err := env.uc.VerifyOtp(context.Background(), in); err != nil {
			t.Fatalf("first verify failed: %v", err)
		}

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), in)

		// Assert
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("ReissueInvalidatesOldCode", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, oldSession := issueCode(t, env)

		env.code.code = "917350"
		if _, err := env.uc.GenerateOtp(context.Background(), GenerateOtpInput{ChallengeToken: token}); err != nil {
			t.Fatalf("reissue failed: %v", err)
		}

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      oldSession,
			Code:           "428517", // the first issuance
		})

		// Assert
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("ExpiredCodeFailsEvenWhenCorrect", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		env.clock.Advance(121 * time.Second)

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           env.code.code,
		})

		// Assert
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("VerifyBeforeIssueFails", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token := env.loginStandard(t, "user@example.com", "S3cret!pass")

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      "oid-99",
			Code:           "428517",
		})

		// Assert
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("SessionMismatchConsumesSlot", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      "not-" + session,
			Code:           env.code.code,
		})

		// Assert
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}

		// The correct pair no longer works either.
		_, err = env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           env.code.code,
		})
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("MalformedCodeDoesNotConsumeSlot", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           "12ab56",
		})
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}

		out, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           env.code.code,
		})

		// Assert
		if err != nil {
			t.Fatalf("the real code must still work after garbage input: %v", err)
		}
		if out.AccessToken == "" {
			t.Fatalf("expected an access token")
		}
	})

	t.Run("WrongCodeLeavesRoomToRetry", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           "000000",
		})
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("unexpected message: %q", got)
		}

		out, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           env.code.code,
		})

		// Assert
		if err != nil {
			t.Fatalf("retry with the right code failed: %v", err)
		}
		if out.AccessToken == "" {
			t.Fatalf("expected an access token after retry")
		}
	})

	t.Run("AttemptBudgetExhausted", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)
		token, session := issueCode(t, env)

		for range 3 {
			_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
				ChallengeToken: token,
				SessionID:      session,
				Code:           "000000",
			})
			if got := bizMessage(t, err); got != rejectMessage {
				t.Fatalf("unexpected message: %q", got)
			}
		}

		// Act
		_, err := env.uc.VerifyOtp(context.Background(), VerifyOtpInput{
			ChallengeToken: token,
			SessionID:      session,
			Code:           env.code.code,
		})

		// Assert
		if got := bizMessage(t, err); got != rejectMessage {
			t.Fatalf("the correct code must not work after the budget is spent, got %q", got)
		}
	})
}
