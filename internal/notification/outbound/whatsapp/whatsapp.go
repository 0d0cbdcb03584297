package whatsapp

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/whatsapp"
	"go.opentelemetry.io/otel/codes"
)

type WhatsApp struct {
	client *whatsapp.Client
	ins    instrument.Instrumentation
}

func New(client *whatsapp.Client, ins instrument.Instrumentation) *WhatsApp {
	return &WhatsApp{client: client, ins: ins}
}

func (w *WhatsApp) Send(ctx context.Context, to, body string) error {
	ctx, span := w.ins.Tracer("notification.outbound.whatsapp").Start(ctx, "Send")
	defer span.End()

	if err := w.client.Send(ctx, to, body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
