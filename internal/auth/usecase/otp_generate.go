package usecase

import (
	"context"
	"log/slog"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
)

type GenerateOtpInput struct {
	ChallengeToken string `validate:"required"`
}

type GenerateOtpOutput struct {
	SessionID     string
	ExpirySeconds int64
}

// GenerateOtp mints a fresh one-time code for a password-verified login
// session and hands it to the delivery channel. The plaintext code never
// appears in the response or in logs; the caller only learns the session id
// that binds the eventual verification, plus an advisory countdown.
//
// Issuing again replaces any previously issued code for the same user.
func (s *Usecase) GenerateOtp(ctx context.Context, in GenerateOtpInput) (*GenerateOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateOtp")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cu, err := s.loadChallengeUser(ctx, in.ChallengeToken)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUserStatusAllowed(ctx, cu.UserID, cu.UserStatus); err != nil {
		return nil, err
	}

	codeLength := s.cfg.GetInt("modules.auth.otp_code_length")
	code, err := s.codegen.Code(codeLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate one-time code", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.argon2id.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash one-time code", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetSecond("modules.auth.otp_ttl_seconds")
	now := s.clock.Now()

	ch := entity.OtpChallenge{
		SessionID: s.oid.Generate(),
		CodeHash:  string(codeHash),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.repoChallenge.Put(ctx, cu.UserID, ch, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to repo put otp challenge", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Delivery is best-effort: a broker hiccup should not fail issuance, the
	// user can simply request a new code.
	if err := s.repoMessaging.PublishOtpIssued(ctx, OtpIssuedEvent{
		UserID:    cu.UserID,
		Email:     cu.UserEmail,
		SessionID: ch.SessionID,
		Code:      code,
		ExpiresAt: ch.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued event", "user_id", cu.UserID, "error", err)
	}

	return &GenerateOtpOutput{
		SessionID:     ch.SessionID,
		ExpirySeconds: int64(ttl.Seconds()),
	}, nil
}
