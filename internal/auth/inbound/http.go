package inbound

import (
	"context"

	"github.com/antonvb/authgate/internal/auth/usecase"
	"github.com/antonvb/authgate/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	GenerateOtp(ctx context.Context, in usecase.GenerateOtpInput) (*usecase.GenerateOtpOutput, error)
	VerifyOtp(ctx context.Context, in usecase.VerifyOtpInput) (*usecase.VerifyOtpOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)

	Logout(ctx context.Context, in usecase.LogoutInput) error
	LogoutAll(ctx context.Context, in usecase.LogoutAllInput) error

	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)

	UserList(ctx context.Context, in usecase.UserListInput) (*usecase.UserListOutput, error)
	UserDetail(ctx context.Context, in usecase.UserDetailInput) (*usecase.UserDetailOutput, error)
	UserCreate(ctx context.Context, in usecase.UserCreateInput) error
	UserUpdate(ctx context.Context, in usecase.UserUpdateInput) error
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
	UserExport(ctx context.Context, in usecase.UserExportInput) (*usecase.UserExportOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Authentication
	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/otp/generate", end.GenerateOtp)
	r.POST("/api/v1/auth/otp/verify", end.VerifyOtp)
	r.POST("/api/v1/auth/refresh", end.RefreshToken)
	//
	r.POST("/api/v1/auth/logout", end.Logout)
	r.POST("/api/v1/auth/logout-all", end.LogoutAll) // need authenticated

	// User Profile (need authenticated)
	r.GET("/api/v1/auth/profile", end.Profile)

	// User Directory (need authenticated & authorization)
	r.GET("/api/v1/auth/users", end.UserList)
	r.GET("/api/v1/auth/users/:id", end.UserDetail)
	r.POST("/api/v1/auth/users", end.UserCreate)
	r.PUT("/api/v1/auth/users/:id", end.UserUpdate)
	r.DELETE("/api/v1/auth/users/:id", end.UserDelete)
	r.GET("/api/v1/auth/users-export", end.UserExport)
}
