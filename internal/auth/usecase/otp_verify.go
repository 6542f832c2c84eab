package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/otp"
)

type VerifyOtpInput struct {
	ChallengeToken string `validate:"required"`
	SessionID      string `validate:"required"`
	Code           string `validate:"required"`
}

type VerifyOtpOutput struct {
	AccessToken  string
	RefreshToken string
	RedirectTo   string
}

// VerifyOtp checks a submitted one-time code against the user's active slot
// and, on success, completes authentication.
//
// The slot is removed before the check so a code can be consumed at most
// once; on a plain code mismatch the slot is put back (with the attempt
// counted) so the user may retry until the attempt budget runs out. All
// rejection paths answer with the same message, whether the slot never
// existed, already expired, was already consumed, or the code was wrong.
func (s *Usecase) VerifyOtp(ctx context.Context, in VerifyOtpInput) (*VerifyOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOtp")
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

	// A code of the wrong shape can never match, so it is rejected before the
	// slot is touched. Same message as every other rejection.
	if !otp.IsWellFormed(in.Code, s.cfg.GetInt("modules.auth.otp_code_length")) {
		slog.WarnContext(ctx, "submitted code is malformed", "user_id", cu.UserID)
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	ch, err := s.repoChallenge.Take(ctx, cu.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo take otp challenge", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if ch == nil {
		slog.WarnContext(ctx, "no active otp challenge", "user_id", cu.UserID)
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	now := s.clock.Now()
	if now.After(ch.ExpiresAt) {
		slog.WarnContext(ctx, "otp challenge is expired", "user_id", cu.UserID)
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	// A session mismatch means the submission does not belong to this
	// issuance; the slot stays consumed.
	if subtle.ConstantTimeCompare([]byte(ch.SessionID), []byte(in.SessionID)) != 1 {
		slog.WarnContext(ctx, "otp session does not match issuance", "user_id", cu.UserID)
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	if !s.argon2id.Verify(ch.CodeHash, in.Code) {
		ch.Attempts++
		if ch.Attempts < s.cfg.GetInt("modules.auth.otp_max_attempts") {
			if err := s.repoChallenge.Restore(ctx, cu.UserID, *ch, ch.ExpiresAt.Sub(now)); err != nil {
				slog.ErrorContext(ctx, "failed to repo restore otp challenge", "user_id", cu.UserID, "error", err)
			}
		} else {
			slog.WarnContext(ctx, "otp attempt budget exhausted", "user_id", cu.UserID)
		}

		slog.WarnContext(ctx, "one-time code does not match", "user_id", cu.UserID)
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
	}

	acToken, err := s.jwt.Generate(cu.UserID, cu.UserEmail, cu.UserRole.String())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refToken, refRow, err := s.newRefreshToken(ctx, cu.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.repoDB.NewRefreshToken(ctx, refRow, cu.ChallengeID); err != nil {
		slog.ErrorContext(ctx, "failed to repo new refresh token user", "user_id", cu.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOtpOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
		RedirectTo:   s.cfg.GetString("modules.auth.post_verify_target"),
	}, nil
}
