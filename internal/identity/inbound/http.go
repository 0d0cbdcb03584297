package inbound

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
)

type uc interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Account lifecycle
	r.POST("/api/v1/identity/signup", end.Signup)
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	r.POST("/api/v1/identity/logout", end.Logout)

	// Password management
	r.POST("/api/v1/identity/password/reset", end.PasswordReset)

	// Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
}
