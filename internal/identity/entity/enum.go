package entity

// UserStatus is the account lifecycle state. Accounts are created only after
// the email code is verified, so new users start Active.
type UserStatus int16

const (
	// UserStatusUnknown means the status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusActive means the user is allowed to use the app.
	UserStatusActive UserStatus = 1

	// UserStatusBanned means the user is blocked from using the app.
	UserStatusBanned UserStatus = 2

	// UserStatusInactive means the account was deactivated or closed.
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

// UserRole separates the two sides of the board.
type UserRole int16

const (
	// UserRoleUnknown means the role is not known / not set.
	UserRoleUnknown UserRole = 0

	// UserRoleStudent can publish a profile and receive contact requests.
	UserRoleStudent UserRole = 1

	// UserRoleEmployer can post jobs and send contact requests.
	UserRoleEmployer UserRole = 2
)

func (r UserRole) String() string {
	switch r {
	case UserRoleStudent:
		return "student"
	case UserRoleEmployer:
		return "employer"
	default:
		return "unknown"
	}
}

func (r UserRole) IsUnknown() bool {
	switch r {
	case UserRoleStudent, UserRoleEmployer:
		return false
	default:
		return true
	}
}

func UserRoleFromString(s string) UserRole {
	switch s {
	case "student":
		return UserRoleStudent
	case "employer":
		return UserRoleEmployer
	default:
		return UserRoleUnknown
	}
}
