package inbound

import (
	"github.com/shiftbuddy/shiftbuddy/internal/otp/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the one-time code lifecycle.
type HTTPEndpoint struct {
	uc uc
}

// Send issues and emails a one-time code.
// @Summary Send a one-time code
// @Description Issues a six digit code for the given email and purpose and delivers it by email. Resends are throttled server side.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body SendRequest true "Send payload"
// @Success 200 {object} router.successResponse "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Resend throttled"
// @Failure 500 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/send [post]
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Send(r.Context(), usecase.SendInput{
		Email:   req.Email,
		Purpose: req.Type,
	}); err != nil {
		return nil, err
	}

	return SendResponse{}, nil
}

// Verify checks a submitted one-time code.
// @Summary Verify a one-time code
// @Description Verifies the submitted code against the latest live code for the email and purpose. A correct code is consumed on first use.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Email:   req.Email,
		Code:    req.OTP,
		Purpose: req.Type,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{
		Verified: resp.Verified,
		Message:  resp.Message,
	}, nil
}
