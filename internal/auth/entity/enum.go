package entity

import "strconv"

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusActive mean user is allowed to use the app.
	UserStatusActive UserStatus = 1

	// UserStatusBanned mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBanned UserStatus = 2

	// UserStatusInactive mean user is not currently active (e.g., deactivated, closed).
	UserStatusInactive UserStatus = 3
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (us UserStatus) IsUnknown() bool {
	switch us {
	case UserStatusActive, UserStatusBanned, UserStatusInactive:
		return false
	default:
		return true
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusActive:
		return UserStatusActive
	case UserStatusBanned:
		return UserStatusBanned
	case UserStatusInactive:
		return UserStatusInactive
	default:
		return UserStatusUnknown
	}
}

func ParseSafeUserStatuses(raws []string) []UserStatus {
	out := make([]UserStatus, 0)
	seen := map[UserStatus]struct{}{}

	for _, v := range raws {
		n, err := strconv.ParseInt(v, 10, 16)
		if err != nil {
			continue
		}

		s := UserStatus(n)
		if s.IsUnknown() {
			continue
		}

		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

func ToInt16Slice(sts []UserStatus) []int16 {
	out := make([]int16, len(sts))
	for i, s := range sts {
		out[i] = int16(s)
	}
	return out
}

// UserRole decides the second-factor policy at login.
//
// The branch is a deliberate privilege design, not an incidental conditional:
// admins complete authentication on the password alone, standard users must
// pass the one-time code stage.
type UserRole int16

const (
	RoleUnknown  UserRole = 0
	RoleStandard UserRole = 1
	RoleAdmin    UserRole = 2
)

func RoleFromString(str string) UserRole {
	switch str {
	case "Standard":
		return RoleStandard
	case "Admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

func (r UserRole) String() string {
	switch r {
	case RoleStandard:
		return "Standard"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

func (r UserRole) IsUnknown() bool {
	switch r {
	case RoleStandard, RoleAdmin:
		return false
	default:
		return true
	}
}

// ChallengePurpose scopes an opaque challenge token to a single workflow.
type ChallengePurpose int16

const (
	ChallengePurposeUnknown  ChallengePurpose = 0
	ChallengePurposeOTPLogin ChallengePurpose = 1
)
