package usecase

import (
	"context"
	"testing"

	"github.com/antonvb/authgate/internal/auth/entity"
)

func TestLogin(t *testing.T) {
	t.Run("AdminSkipsSecondFactor", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 1, "root@example.com", "S3cret!pass", entity.RoleAdmin, entity.UserStatusActive)

		// Act
		out, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "root@example.com",
			Password: "S3cret!pass",
		})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if out.OtpRequired {
			t.Fatalf("admin should not be asked for a code")
		}
		if out.AccessToken == "" || out.RefreshToken == "" {
			t.Fatalf("expected tokens, got %+v", out)
		}
		if len(env.db.refreshRows) != 1 {
			t.Fatalf("expected one persisted refresh token, got %d", len(env.db.refreshRows))
		}
		if len(env.db.createdChallenges) != 0 {
			t.Fatalf("admin login must not create a challenge")
		}
	})

	t.Run("StandardUserGetsChallenge", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 2, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)

		// Act
		out, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "User@Example.com",
			Password: "S3cret!pass",
		})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !out.OtpRequired || out.ChallengeToken == "" {
			t.Fatalf("expected a code challenge, got %+v", out)
		}
		if out.AccessToken != "" || out.RefreshToken != "" {
			t.Fatalf("standard login must not hand out tokens before the code stage")
		}
		if out.CodeLength != 6 || out.ExpirySeconds != 120 {
			t.Fatalf("unexpected advisory values: length=%d expiry=%d", out.CodeLength, out.ExpirySeconds)
		}
		if len(env.db.createdChallenges) != 1 {
			t.Fatalf("expected one persisted challenge, got %d", len(env.db.createdChallenges))
		}
		if env.db.createdChallenges[0].Token == out.ChallengeToken {
			t.Fatalf("challenge token must be stored hashed, not in plaintext")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 3, "user@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusActive)

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "user@example.com",
			Password: "not-the-password",
		})

		// Assert
		if got := bizMessage(t, err); got != "invalid email or password" {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("UnknownEmailSameMessage", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})

		// Assert
		if got := bizMessage(t, err); got != "invalid email or password" {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("BannedUser", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 4, "banned@example.com", "S3cret!pass", entity.RoleStandard, entity.UserStatusBanned)

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "banned@example.com",
			Password: "S3cret!pass",
		})

		// Assert
		if got := bizMessage(t, err); got != "account is banned" {
			t.Fatalf("unexpected message: %q", got)
		}
	})

	t.Run("UnrecognizedRole", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedUser(t, 5, "odd@example.com", "S3cret!pass", entity.RoleUnknown, entity.UserStatusActive)

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "odd@example.com",
			Password: "S3cret!pass",
		})

		// Assert
		if got := bizMessage(t, err); got != "account role is unrecognized" {
			t.Fatalf("unexpected message: %q", got)
		}
	})
}
