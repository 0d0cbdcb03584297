package inbound

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
)

type uc interface {
	Send(ctx context.Context, in usecase.SendInput) error
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/send", end.Send)
	r.POST("/api/v1/otp/verify", end.Verify)
}
