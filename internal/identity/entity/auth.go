package entity

import "time"

type User struct {
	ID        int64
	Email     string
	FullName  string
	Role      UserRole
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewUser struct {
	ID       int64
	Email    string
	FullName string
	Role     UserRole
	Status   UserStatus
}

type UserLoginInfo struct {
	ID       int64
	Email    string
	Role     UserRole
	Status   UserStatus
	Password string // hashed
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	ExpiresAt time.Time
	Revoked   bool
}

type UserRefreshToken struct {
	TokenID    int64
	UserID     int64
	UserEmail  string
	UserStatus UserStatus
	ExpiresAt  time.Time
	Revoked    bool
}
