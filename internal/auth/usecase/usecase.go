package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/clock"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/goroutine"
	"github.com/antonvb/authgate/internal/pkg/hash"
	"github.com/antonvb/authgate/internal/pkg/idempotency"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/jwt"
	"github.com/antonvb/authgate/internal/pkg/otp"
	"github.com/antonvb/authgate/internal/pkg/storage"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"
)

type OtpIssuedEvent struct {
	UserID    int64
	Email     string
	SessionID string
	Code      string
	ExpiresAt time.Time
}

type UserCreatedEvent struct {
	UserID   int64
	Email    string
	FullName string
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
	PublishUserCreated(ctx context.Context, msg UserCreatedEvent) error
}

type repoDB interface {
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetChallengeUserByToken(ctx context.Context, token string, p entity.ChallengePurpose) (*entity.ChallengeUser, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)
	GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64, includeDeleted bool) (*entity.User, error)
	GetUserList(ctx context.Context, filter entity.UserListFilterData) ([]entity.User, int64, error)

	CreateChallenge(ctx context.Context, in entity.Challenge) error
	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	NewRefreshToken(ctx context.Context, ref entity.RefreshToken, challengeID int64) error
	NewUser(ctx context.Context, user entity.NewUser, hash string) error

	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
	PatchUser(ctx context.Context, user entity.PatchUser, hash string) error
	MarkUserDeleted(ctx context.Context, id, byID int64) error

	DeleteChallenge(ctx context.Context, id int64) error
}

// repoChallenge is the per-user one-time-code slot store.
//
// Put overwrites unconditionally (last issuance wins). Take removes and
// returns the slot atomically so a code can be consumed at most once. Restore
// puts a slot back only while the user has no newer slot.
type repoChallenge interface {
	Put(ctx context.Context, userID int64, ch entity.OtpChallenge, ttl time.Duration) error
	Take(ctx context.Context, userID int64) (*entity.OtpChallenge, error)
	Restore(ctx context.Context, userID int64, ch entity.OtpChallenge, ttl time.Duration) error
}

type Usecase struct {
	repoDB        repoDB
	repoChallenge repoChallenge
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	hmac          hash.Hash
	bcrypt        hash.Hash
	argon2id      hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	oid           uid.StringID
	codegen       otp.Generator
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoChallenge repoChallenge
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	Argon2ID      hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	OID           uid.StringID
	CodeGenerator otp.Generator
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoChallenge: dep.RepoChallenge,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		argon2id:      dep.Argon2ID,
		uid:           dep.UID,
		uuid:          dep.UUID,
		oid:           dep.OID,
		codegen:       dep.CodeGenerator,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	default:
		return nil
	}
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// loadChallengeUser resolves an opaque login challenge token to its user,
// enforcing the token TTL with the usecase clock.
func (s *Usecase) loadChallengeUser(ctx context.Context, token string) (*entity.ChallengeUser, error) {
	cTokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash challenge token", "error", err)
		return nil, goerror.NewServer(err)
	}

	cu, err := s.repoDB.GetChallengeUserByToken(ctx, string(cTokenHash), entity.ChallengePurposeOTPLogin)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login challenge not found")
		return nil, goerror.NewBusiness("invalid or expired login session", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge user by token", "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.clock.Now().After(cu.ChallengeExpiresAt) {
		slog.WarnContext(ctx, "login challenge is expired", "user_id", cu.UserID)
		return nil, goerror.NewBusiness("invalid or expired login session", goerror.CodeUnauthorized)
	}

	return cu, nil
}

func (s *Usecase) newRefreshToken(ctx context.Context, userID int64) (plain string, row entity.RefreshToken, err error) {
	plain = s.oid.Generate()

	tokenHash, err := s.hmac.Hash(plain)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return "", entity.RefreshToken{}, goerror.NewServer(err)
	}

	row = entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(tokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.auth.refresh_token_ttl_days")),
	}

	return plain, row, nil
}
