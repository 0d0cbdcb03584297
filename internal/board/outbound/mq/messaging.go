package mq

import (
	"context"
	"encoding/json"

	"github.com/shiftbuddy/shiftbuddy/internal/board/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) publish(ctx context.Context, spanName, destination string, payload any) error {
	ctx, span := m.ins.Tracer("board.outbound.mq").Start(ctx, spanName)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishJobPosted(ctx context.Context, msg usecase.JobPostedEvent) error {
	return m.publish(ctx, "PublishJobPosted", event.JobPostedDestination, event.JobPostedMessage{
		JobID:          msg.JobID,
		EmployerID:     msg.EmployerID,
		Title:          msg.Title,
		Category:       msg.Category.String(),
		City:           msg.City,
		HourlyRateCent: msg.HourlyRateCent,
	})
}

func (m *Messaging) PublishContactRequested(ctx context.Context, msg usecase.ContactRequestedEvent) error {
	return m.publish(ctx, "PublishContactRequested", event.ContactRequestedDestination, event.ContactRequestedMessage{
		RequestID:  msg.RequestID,
		StudentID:  msg.StudentID,
		EmployerID: msg.EmployerID,
		Message:    msg.Message,
	})
}

func (m *Messaging) PublishContactApproved(ctx context.Context, msg usecase.ContactApprovedEvent) error {
	return m.publish(ctx, "PublishContactApproved", event.ContactApprovedDestination, event.ContactApprovedMessage{
		RequestID:  msg.RequestID,
		StudentID:  msg.StudentID,
		EmployerID: msg.EmployerID,
		Company:    msg.Contact.Company,
		Phone:      msg.Contact.Phone,
		Email:      msg.Contact.Email,
	})
}
