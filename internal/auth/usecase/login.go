package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	OtpRequired    bool
	ChallengeToken string
	CodeLength     int
	ExpirySeconds  int64
	//
	AccessToken  string
	RefreshToken string
}

// Login performs the primary credential check and dispatches on role: admins
// complete authentication immediately, standard users receive a login
// challenge and must pass the one-time code stage.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	user, err := s.repoDB.GetUserLoginInfo(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user login info", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	switch user.Role {
	case entity.RoleAdmin:
		return s.grantAdminAccess(ctx, user)

	case entity.RoleStandard:
		return s.beginOtpStage(ctx, user)

	default:
		slog.WarnContext(ctx, "user role is unrecognized", "user_id", user.ID)
		return nil, goerror.NewBusiness("account role is unrecognized", goerror.CodeForbidden)
	}
}

// grantAdminAccess issues tokens without a second factor.
func (s *Usecase) grantAdminAccess(ctx context.Context, user *entity.UserLoginInfo) (*LoginOutput, error) {
	acToken, err := s.jwt.Generate(user.ID, user.Email, user.Role.String())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refToken, refRow, err := s.newRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repoDB.CreateRefreshToken(ctx, refRow); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token user", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}

// beginOtpStage records a password-verified session and tells the client to
// run the one-time code exchange.
func (s *Usecase) beginOtpStage(ctx context.Context, user *entity.UserLoginInfo) (*LoginOutput, error) {
	cToken := s.oid.Generate()

	cTokenHash, err := s.hmac.Hash(cToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash challenge token", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateChallenge(ctx, entity.Challenge{
		ID:        s.uid.Generate(),
		UserID:    user.ID,
		Token:     string(cTokenHash),
		Purpose:   entity.ChallengePurposeOTPLogin,
		ExpiresAt: s.clock.Now().Add(s.cfg.GetMinute("modules.auth.login_challenge_ttl_minutes")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create challenge", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		OtpRequired:    true,
		ChallengeToken: cToken,
		CodeLength:     s.cfg.GetInt("modules.auth.otp_code_length"),
		ExpirySeconds:  int64(s.cfg.GetSecond("modules.auth.otp_ttl_seconds").Seconds()),
	}, nil
}
