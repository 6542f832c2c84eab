package entity

import (
	"time"

	"github.com/antonvb/authgate/internal/pkg/valueobject"
)

type User struct {
	ID        int64
	Email     string
	FullName  string
	Role      UserRole
	Status    UserStatus
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Challenge is the password-verified login session: it is created after a
// successful credential check and entitles its holder to request and verify
// one-time codes. The token is stored HMAC-hashed.
type Challenge struct {
	ID        int64
	UserID    int64
	Token     string
	Purpose   ChallengePurpose
	ExpiresAt time.Time
	Metadata  valueobject.JSONMap
}

// OtpChallenge is the single active one-time-code slot of a user.
//
// Exactly one may exist per user at a time; issuing a new one overwrites any
// prior slot. The plaintext code is never stored, only its argon2id hash.
type OtpChallenge struct {
	SessionID string    `json:"session_id"`
	CodeHash  string    `json:"code_hash"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

type RefreshToken struct {
	ID                int64
	UserID            int64
	Token             string
	ExpiresAt         time.Time
	Revoked           bool
	ReplacedByTokenID int64
	Metadata          valueobject.JSONMap
}

// ---- //

type ChallengeUser struct {
	ChallengeID        int64
	ChallengePurpose   ChallengePurpose
	ChallengeExpiresAt time.Time
	UserID             int64
	UserEmail          string
	UserRole           UserRole
	UserStatus         UserStatus
}

type UserLoginInfo struct {
	ID       int64
	Email    string
	Role     UserRole
	Status   UserStatus
	Password string
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
}

type UserRefreshToken struct {
	UserID                   int64
	UserEmail                string
	UserRole                 UserRole
	UserStatus               UserStatus
	RefreshID                int64
	RefreshToken             string
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}

type UserListFilterData struct {
	IsFilterBySearch bool
	IsFilterByStatus bool
	Search           string
	Statuses         []int16
	Size             int32
	Page             int32
	OrderBy          string
	OrderDirection   string
}

type NewUser struct {
	ID        int64
	Email     string
	FullName  string
	Role      UserRole
	Status    UserStatus
	CreatedBy int64
	UpdatedBy int64
}

type PatchUser struct {
	ID        int64
	Email     string
	FullName  string
	Role      UserRole
	Status    UserStatus
	UpdatedBy int64
}
