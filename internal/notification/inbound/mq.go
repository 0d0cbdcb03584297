package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goroutine"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/idempotency"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	idem idempotency.Idempotency,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHanlder := &MQHandler{uc: uc, uuid: uuid, idem: idem, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.UserRegisteredConsumerNotification,
			topic:   event.UserRegisteredDestination,
			handler: mqHanlder.UserRegisteredNotification,
		},
		{
			name:    event.PasswordChangedConsumerNotification,
			topic:   event.PasswordChangedDestination,
			handler: mqHanlder.PasswordChangedNotification,
		},
		{
			name:    event.OTPIssuedConsumerNotification,
			topic:   event.OTPIssuedDestination,
			handler: mqHanlder.OTPIssuedNotification,
		},
		{
			name:    event.JobPostedConsumerNotification,
			topic:   event.JobPostedDestination,
			handler: mqHanlder.JobPostedNotification,
		},
		{
			name:    event.ContactRequestedConsumerNotification,
			topic:   event.ContactRequestedDestination,
			handler: mqHanlder.ContactRequestedNotification,
		},
		{
			name:    event.ContactApprovedConsumerNotification,
			topic:   event.ContactApprovedDestination,
			handler: mqHanlder.ContactApprovedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.name),
					messaging.WithQueueGroup(consumer.name),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
