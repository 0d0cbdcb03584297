package inbound

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/idempotency"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConsumerUC embeds the handler interface so only the consumer methods
// exercised here need real bodies.
type fakeConsumerUC struct {
	uc

	mu         sync.Mutex
	registered []usecase.ConsumeUserRegisteredInput
	otpIssued  []usecase.ConsumeOTPIssuedInput
	lastCID    string
	consumeErr error
}

func (f *fakeConsumerUC) ConsumeUserRegistered(ctx context.Context, in usecase.ConsumeUserRegisteredInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCID = instrument.GetCorrelationID(ctx)
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.registered = append(f.registered, in)
	return nil
}

func (f *fakeConsumerUC) ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpIssued = append(f.otpIssued, in)
	return nil
}

type fakeMessage struct {
	id      string
	body    []byte
	headers []messaging.Header
}

func (m *fakeMessage) Body() []byte                  { return m.body }
func (m *fakeMessage) Key() []byte                   { return nil }
func (m *fakeMessage) Headers() []messaging.Header   { return m.headers }
func (m *fakeMessage) Attributes() map[string]string { return nil }
func (m *fakeMessage) ID() string                    { return m.id }
func (m *fakeMessage) Topic() string                 { return "" }
func (m *fakeMessage) Subject() string               { return "" }
func (m *fakeMessage) Timestamp() time.Time          { return time.Time{} }
func (m *fakeMessage) Ack(context.Context) error     { return nil }

// fakeTracker remembers completed keys in memory, standing in for the redis
// backed state tracker.
type fakeTracker struct {
	mu   sync.Mutex
	done map[string]bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{done: map[string]bool{}}
}

func (f *fakeTracker) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done[key] {
		return idempotency.StateCompleted, nil
	}
	return idempotency.StateNone, nil
}

func (f *fakeTracker) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done[key] = true
	return nil
}

func (f *fakeTracker) MarkFailed(_ context.Context, _ string, _ time.Duration) error { return nil }

func (f *fakeTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	state, err := f.Acquire(ctx, key, 0)
	if err != nil {
		return err
	}
	if state == idempotency.StateCompleted {
		return idempotency.ErrAlreadyCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	return f.MarkCompleted(ctx, key, 0)
}

type fixedUUID struct{}

func (fixedUUID) Generate() string { return "generated-cid" }

func newHandler(uc uc, idem idempotency.Idempotency) *MQHandler {
	return &MQHandler{uc: uc, uuid: fixedUUID{}, idem: idem, ins: instrument.NewNoop()}
}

func TestUserRegisteredNotification(t *testing.T) {
	payload := []byte(`{"user_id":7,"email":"nisha@example.com","full_name":"Nisha Rao","role":"student"}`)

	t.Run("Consumes", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		h := newHandler(uc, newFakeTracker())

		// Act
		err := h.UserRegisteredNotification(context.Background(), &fakeMessage{id: "m-1", body: payload})

		// Assert
		require.NoError(t, err)
		require.Len(t, uc.registered, 1)
		assert.Equal(t, int64(7), uc.registered[0].UserID)
		assert.Equal(t, "nisha@example.com", uc.registered[0].Email)
	})

	t.Run("RedeliveryDoesNotRepeatSideEffects", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		h := newHandler(uc, newFakeTracker())
		msg := &fakeMessage{id: "m-1", body: payload}
		require.NoError(t, h.UserRegisteredNotification(context.Background(), msg))

		// Act
		err := h.UserRegisteredNotification(context.Background(), msg)

		// Assert
		assert.ErrorIs(t, err, idempotency.ErrAlreadyCompleted)
		assert.Len(t, uc.registered, 1)
	})

	t.Run("MissingBrokerIDSkipsTracker", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		tracker := newFakeTracker()
		h := newHandler(uc, tracker)
		msg := &fakeMessage{body: payload}

		// Act
		require.NoError(t, h.UserRegisteredNotification(context.Background(), msg))
		require.NoError(t, h.UserRegisteredNotification(context.Background(), msg))

		// Assert
		assert.Len(t, uc.registered, 2)
		assert.Empty(t, tracker.done)
	})

	t.Run("MalformedPayloadDropped", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		h := newHandler(uc, newFakeTracker())

		// Act
		err := h.UserRegisteredNotification(context.Background(), &fakeMessage{id: "m-2", body: []byte(`{"user_id":`)})

		// Assert
		assert.NoError(t, err, "a payload that can never parse must not be redelivered")
		assert.Empty(t, uc.registered)
	})

	t.Run("FailedConsumeNotMarkedDone", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{consumeErr: assert.AnError}
		tracker := newFakeTracker()
		h := newHandler(uc, tracker)
		msg := &fakeMessage{id: "m-3", body: payload}

		// Act
		err := h.UserRegisteredNotification(context.Background(), msg)

		// Assert
		require.Error(t, err)
		assert.Empty(t, tracker.done)

		uc.consumeErr = nil
		require.NoError(t, h.UserRegisteredNotification(context.Background(), msg))
		assert.Len(t, uc.registered, 1)
	})

	t.Run("CorrelationIDTakenFromHeader", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		h := newHandler(uc, newFakeTracker())
		msg := &fakeMessage{
			id:      "m-4",
			body:    payload,
			headers: []messaging.Header{{Key: "cID", Value: []byte("cid-from-producer")}},
		}

		// Act
		require.NoError(t, h.UserRegisteredNotification(context.Background(), msg))

		// Assert
		assert.Equal(t, "cid-from-producer", uc.lastCID)
	})

	t.Run("CorrelationIDGeneratedWhenAbsent", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		h := newHandler(uc, newFakeTracker())

		// Act
		require.NoError(t, h.UserRegisteredNotification(context.Background(), &fakeMessage{id: "m-5", body: payload}))

		// Assert
		assert.Equal(t, "generated-cid", uc.lastCID)
	})
}

func TestOTPIssuedNotification(t *testing.T) {
	t.Run("Consumes", func(t *testing.T) {
		// Arrange
		uc := &fakeConsumerUC{}
		h := newHandler(uc, newFakeTracker())

		// Act
		err := h.OTPIssuedNotification(context.Background(),
			&fakeMessage{id: "m-6", body: []byte(`{"email":"nisha@example.com","purpose":"signup"}`)})

		// Assert
		require.NoError(t, err)
		require.Len(t, uc.otpIssued, 1)
		assert.Equal(t, "signup", uc.otpIssued[0].Purpose)
	})
}
