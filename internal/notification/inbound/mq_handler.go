package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/idempotency"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	idem idempotency.Idempotency
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// once runs fn through the idempotency tracker keyed by the broker message
// ID, so a redelivered message does not repeat its side effects. Messages
// without a broker ID run directly.
func (h *MQHandler) once(ctx context.Context, name string, msg messaging.Message, fn func(context.Context) error) error {
	if msg.ID() == "" {
		return fn(ctx)
	}
	return h.idem.Exec(ctx, name+":"+msg.ID(), fn)
}

func (h *MQHandler) UserRegisteredNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserRegisteredNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registered notification", "msg_body", string(body))

	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registered notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.once(ctx, event.UserRegisteredConsumerNotification, msg, func(ctx context.Context) error {
		return h.uc.ConsumeUserRegistered(ctx, usecase.ConsumeUserRegisteredInput{
			UserID:   payload.UserID,
			Email:    payload.Email,
			FullName: payload.FullName,
			Role:     payload.Role,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user registered", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) PasswordChangedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordChangedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: password changed notification", "msg_body", string(body))

	var payload event.PasswordChangedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password changed notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.once(ctx, event.PasswordChangedConsumerNotification, msg, func(ctx context.Context) error {
		return h.uc.ConsumePasswordChanged(ctx, usecase.ConsumePasswordChangedInput{
			UserID: payload.UserID,
			Email:  payload.Email,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password changed", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: otp issued notification", "msg_body", string(body))

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.once(ctx, event.OTPIssuedConsumerNotification, msg, func(ctx context.Context) error {
		return h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
			Email:   payload.Email,
			Purpose: payload.Purpose,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) JobPostedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "JobPostedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: job posted notification", "msg_body", string(body))

	var payload event.JobPostedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of job posted notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.once(ctx, event.JobPostedConsumerNotification, msg, func(ctx context.Context) error {
		return h.uc.ConsumeJobPosted(ctx, usecase.ConsumeJobPostedInput{
			JobID:          payload.JobID,
			EmployerID:     payload.EmployerID,
			Title:          payload.Title,
			Category:       payload.Category,
			City:           payload.City,
			HourlyRateCent: payload.HourlyRateCent,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume job posted", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) ContactRequestedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "ContactRequestedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: contact requested notification", "msg_body", string(body))

	var payload event.ContactRequestedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of contact requested notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.once(ctx, event.ContactRequestedConsumerNotification, msg, func(ctx context.Context) error {
		return h.uc.ConsumeContactRequested(ctx, usecase.ConsumeContactRequestedInput{
			RequestID:  payload.RequestID,
			StudentID:  payload.StudentID,
			EmployerID: payload.EmployerID,
			Message:    payload.Message,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume contact requested", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) ContactApprovedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "ContactApprovedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: contact approved notification", "msg_body", string(body))

	var payload event.ContactApprovedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of contact approved notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.once(ctx, event.ContactApprovedConsumerNotification, msg, func(ctx context.Context) error {
		return h.uc.ConsumeContactApproved(ctx, usecase.ConsumeContactApprovedInput{
			RequestID:  payload.RequestID,
			StudentID:  payload.StudentID,
			EmployerID: payload.EmployerID,
			Company:    payload.Company,
			Phone:      payload.Phone,
			Email:      payload.Email,
		})
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume contact approved", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
