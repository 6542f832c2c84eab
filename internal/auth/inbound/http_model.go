package inbound

import (
	"time"

	"github.com/antonvb/authgate/internal/auth/entity"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OtpRequired    bool   `json:"otp_required,omitempty"`
	ChallengeToken string `json:"challenge_token,omitempty"`
	CodeLength     int    `json:"code_length,omitempty"`
	ExpirySeconds  int64  `json:"expiry_seconds,omitempty"`
	AccessToken    string `json:"access_token,omitempty"`
	RefreshToken   string `json:"refresh_token,omitempty"`
}

type GenerateOtpRequest struct {
	ChallengeToken string `json:"challenge_token"`
}

type GenerateOtpResponse struct {
	SessionID     string `json:"session_id"`
	ExpirySeconds int64  `json:"expiry_seconds"`
}

func (GenerateOtpResponse) Message() string {
	return "A verification code has been sent. It is valid for a limited time."
}

type VerifyOtpRequest struct {
	ChallengeToken string `json:"challenge_token"`
	SessionID      string `json:"session_id"`
	Code           string `json:"code"`
}

type VerifyOtpResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	RedirectTo   string `json:"redirect_to,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ProfileResponse struct {
	ID       int64  `json:"id,string"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type UserResponse struct {
	ID       int64             `json:"id,string"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Role     string            `json:"role"`
	Status   entity.UserStatus `json:"status"`
	UpdateAt time.Time         `json:"updated_at"`
}

type UserCreateRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	FullName string            `json:"full_name"`
	Role     string            `json:"role"`
	Status   entity.UserStatus `json:"status"`
}

type UserUpdateRequest struct {
	Email    string            `json:"email,omitempty"`
	Password string            `json:"password,omitempty"`
	FullName string            `json:"full_name,omitempty"`
	Role     string            `json:"role,omitempty"`
	Status   entity.UserStatus `json:"status,omitempty"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r UsersResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type UserDetailResponse struct {
	User UserResponse `json:"user"`
}

type UserExportResponse struct {
	Total       int64  `json:"total"`
	ObjectKey   string `json:"object_key"`
	DownloadURL string `json:"download_url"`
}
