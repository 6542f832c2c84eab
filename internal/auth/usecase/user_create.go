package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/shared/constant"
)

type (
	UserCreateInput struct {
		IdempotencyKey string
		Email          string            `validate:"required,email"`
		Password       string            `validate:"required,password"`
		FullName       string            `validate:"required,min=5,max=100,alphaspace"`
		Role           entity.UserRole   `validate:"required,gt=0"`
		Status         entity.UserStatus `validate:"required,gt=0"`
	}
)

func (s *Usecase) UserCreate(ctx context.Context, in UserCreateInput) error {
	ctx, span := s.startSpan(ctx, "UserCreate")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermAuthMgmtUsers, constant.PermActCreate)
	if err != nil {
		return err
	}

	if in.Role.IsUnknown() {
		return goerror.NewBusiness("user role is unrecognized", goerror.CodeInvalidInput)
	}

	if in.IdempotencyKey == "" {
		return s.createUser(ctx, in, clm.UserID)
	}

	return s.idemp.Exec(ctx, "auth:user_create:"+in.IdempotencyKey, func(ctx context.Context) error {
		return s.createUser(ctx, in, clm.UserID)
	})
}

func (s *Usecase) createUser(ctx context.Context, in UserCreateInput, byUserID int64) error {
	user, err := s.repoDB.GetUserByEmail(ctx, in.Email, true)
	if err == nil && user != nil {
		slog.WarnContext(ctx, "user account is already exists", "email", in.Email)
		return goerror.NewBusiness("user account with that email already exists", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		FullName:  in.FullName,
		Role:      in.Role,
		Status:    in.Status,
		CreatedBy: byUserID,
		UpdatedBy: byUserID,
	}

	if err := s.repoDB.NewUser(ctx, newUser, string(hashedPassword)); err != nil {
		slog.ErrorContext(ctx, "failed to repo create new user", "new_user", newUser, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserCreated(ctx, UserCreatedEvent{
		UserID:   newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user created event", "user_id", newUser.ID, "error", err)
	}

	return nil
}
