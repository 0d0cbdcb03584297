package authflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu sync.Mutex

	sendErr    error
	sendGate   chan struct{} // when set, SendCode blocks until it closes
	verifyOK   bool
	verifyErr  error
	verifyGate chan struct{} // when set, VerifyCode blocks until it closes
	updateErr  error

	sendCalls   int
	verifyCalls int
	updateCalls int

	lastEmail    string
	lastCode     string
	lastPassword string
}

func (f *fakeTransport) SendCode(_ context.Context, email string, _ Purpose) error {
	f.mu.Lock()
	gate := f.sendGate
	f.sendCalls++
	f.lastEmail = email
	err := f.sendErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeTransport) VerifyCode(_ context.Context, email, code string, _ Purpose) (bool, error) {
	f.mu.Lock()
	gate := f.verifyGate
	f.verifyCalls++
	f.lastEmail = email
	f.lastCode = code
	ok, err := f.verifyOK, f.verifyErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return ok, err
}

func (f *fakeTransport) UpdatePassword(_ context.Context, email, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastEmail = email
	f.lastPassword = newPassword
	return f.updateErr
}

func (f *fakeTransport) calls() (send, verify, update int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls, f.verifyCalls, f.updateCalls
}

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

func (f *fakeTicker) tick() {
	f.ch <- time.Now()
}

type tickerSource struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (s *tickerSource) factory(time.Duration) Ticker {
	s.mu.Lock()
	defer s.mu.Unlock()

	tk := &fakeTicker{ch: make(chan time.Time)}
	s.tickers = append(s.tickers, tk)
	return tk
}

func (s *tickerSource) latest() *fakeTicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickers[len(s.tickers)-1]
}

func newTestFlow(t *testing.T, purpose Purpose, transport *fakeTransport) (*Flow, *tickerSource) {
	t.Helper()

	src := &tickerSource{}
	flow, err := New(Config{
		Transport: transport,
		Purpose:   purpose,
		NewTicker: src.factory,
	})
	require.NoError(t, err)
	t.Cleanup(flow.Close)

	return flow, src
}

func waitResendIn(t *testing.T, flow *Flow, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return flow.ResendIn() == want
	}, time.Second, time.Millisecond)
}

func TestNew(t *testing.T) {
	t.Run("RequiresTransport", func(t *testing.T) {
		_, err := New(Config{Purpose: PurposeSignup})
		assert.Error(t, err)
	})

	t.Run("RequiresKnownPurpose", func(t *testing.T) {
		_, err := New(Config{Transport: &fakeTransport{}, Purpose: Purpose("mfa")})
		assert.Error(t, err)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("MovesToCodeEntry", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, _ := newTestFlow(t, PurposeSignup, transport)

		// Act
		err := flow.Submit(ctx, "anna@example.com")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, StageAwaitingOTP, flow.Stage())
		assert.Equal(t, 60, flow.ResendIn())
		assert.Equal(t, "anna@example.com", transport.lastEmail)
	})

	t.Run("SendFailureStaysOnCredentials", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{sendErr: errors.New("network down")}
		flow, _ := newTestFlow(t, PurposeSignup, transport)

		// Act
		err := flow.Submit(ctx, "anna@example.com")

		// Assert
		require.Error(t, err)
		assert.Equal(t, StageCredentials, flow.Stage())
		assert.Equal(t, 0, flow.ResendIn())
	})

	t.Run("BusyWhileInFlight", func(t *testing.T) {
		// Arrange
		gate := make(chan struct{})
		transport := &fakeTransport{sendGate: gate}
		flow, _ := newTestFlow(t, PurposeSignup, transport)

		done := make(chan error, 1)
		go func() { done <- flow.Submit(ctx, "anna@example.com") }()

		require.Eventually(t, func() bool {
			send, _, _ := transport.calls()
			return send == 1
		}, time.Second, time.Millisecond)

		// Act
		err := flow.Submit(ctx, "anna@example.com")

		// Assert
		assert.ErrorIs(t, err, ErrBusy)

		close(gate)
		require.NoError(t, <-done)
	})

	t.Run("NotAllowedAfterCodeSent", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		err := flow.Submit(ctx, "anna@example.com")

		// Assert
		assert.ErrorIs(t, err, ErrStage)
	})
}

func TestInput(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectedBeforeCodeSent", func(t *testing.T) {
		// Arrange
		flow, _ := newTestFlow(t, PurposeSignup, &fakeTransport{})

		// Act
		_, err := flow.Input(ctx, "1")

		// Assert
		assert.ErrorIs(t, err, ErrStage)
	})

	t.Run("FiltersNonDigits", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		verified, err := flow.Input(ctx, "1a b-2!3")

		// Assert
		require.NoError(t, err)
		assert.False(t, verified)
		assert.Equal(t, "123", flow.CodeInput())
		_, verify, _ := transport.calls()
		assert.Equal(t, 0, verify, "no submit before six digits")
	})

	t.Run("AutoSubmitsOnSixthDigit", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{verifyOK: true}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		verified, err := flow.Input(ctx, "123456")

		// Assert
		require.NoError(t, err)
		assert.True(t, verified)
		assert.Equal(t, StageDone, flow.Stage(), "signup finishes at verification")
		assert.Equal(t, "123456", transport.lastCode)
		assert.Equal(t, 0, flow.ResendIn(), "cooldown stops on success")
	})

	t.Run("ExcessDigitsIgnored", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{verifyOK: true}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		verified, err := flow.Input(ctx, "1234567890")

		// Assert
		require.NoError(t, err)
		assert.True(t, verified)
		assert.Equal(t, "123456", transport.lastCode)
	})

	t.Run("RejectedCodeClearsInput", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{verifyOK: false}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		verified, err := flow.Input(ctx, "123456")

		// Assert
		require.NoError(t, err)
		assert.False(t, verified)
		assert.Equal(t, StageAwaitingOTP, flow.Stage())
		assert.Empty(t, flow.CodeInput(), "field clears so the user can retype")

		// A fresh fill submits again.
		transport.mu.Lock()
		transport.verifyOK = true
		transport.mu.Unlock()

		verified, err = flow.Input(ctx, "654321")
		require.NoError(t, err)
		assert.True(t, verified)
		_, verify, _ := transport.calls()
		assert.Equal(t, 2, verify)
	})

	t.Run("BackDuringVerifyDiscardsResult", func(t *testing.T) {
		// Arrange
		gate := make(chan struct{})
		transport := &fakeTransport{verifyOK: true, verifyGate: gate}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		type result struct {
			verified bool
			err      error
		}
		done := make(chan result, 1)
		go func() {
			v, err := flow.Input(ctx, "123456")
			done <- result{verified: v, err: err}
		}()

		require.Eventually(t, func() bool {
			_, verify, _ := transport.calls()
			return verify == 1
		}, time.Second, time.Millisecond)

		// Act: the user backs out while the verify call is still in flight.
		flow.Back()
		close(gate)

		// Assert: the acceptance arriving late must not undo the Back.
		res := <-done
		require.NoError(t, res.err)
		assert.False(t, res.verified)
		assert.Equal(t, StageCredentials, flow.Stage())
	})

	t.Run("TransportErrorKeepsDigits", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{verifyErr: errors.New("timeout")}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		_, err := flow.Input(ctx, "123456")

		// Assert
		require.Error(t, err)
		assert.Equal(t, "123456", flow.CodeInput(), "digits survive a network failure")

		// Retry without retyping.
		transport.mu.Lock()
		transport.verifyErr = nil
		transport.mu.Unlock()
		transport.verifyOK = true

		verified, err := flow.Input(ctx, "")
		require.NoError(t, err)
		assert.True(t, verified)
	})
}

func TestResend(t *testing.T) {
	ctx := context.Background()

	t.Run("BlockedDuringCooldown", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		// Act
		err := flow.Resend(ctx)

		// Assert
		assert.ErrorIs(t, err, ErrCooldown)
		send, _, _ := transport.calls()
		assert.Equal(t, 1, send, "a cooling-down resend makes no network call")
	})

	t.Run("CooldownCountsDownOncePerTick", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, src := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))
		require.Equal(t, 60, flow.ResendIn())

		// Act
		src.latest().tick()
		waitResendIn(t, flow, 59)
		src.latest().tick()

		// Assert
		waitResendIn(t, flow, 58)
	})

	t.Run("AllowedAfterCooldownAndRestartsIt", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, src := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))
		_, _ = flow.Input(ctx, "12")

		for range 60 {
			src.latest().tick()
		}
		waitResendIn(t, flow, 0)

		// Act
		err := flow.Resend(ctx)

		// Assert
		require.NoError(t, err)
		send, _, _ := transport.calls()
		assert.Equal(t, 2, send)
		assert.Equal(t, 60, flow.ResendIn())
		assert.Empty(t, flow.CodeInput(), "a resend invalidates typed digits")
	})

	t.Run("RejectedBeforeCodeSent", func(t *testing.T) {
		// Arrange
		flow, _ := newTestFlow(t, PurposeSignup, &fakeTransport{})

		// Act
		err := flow.Resend(ctx)

		// Assert
		assert.ErrorIs(t, err, ErrStage)
	})

	t.Run("BackDuringResendSkipsCooldownRestart", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, src := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		for range 60 {
			src.latest().tick()
		}
		waitResendIn(t, flow, 0)

		gate := make(chan struct{})
		transport.mu.Lock()
		transport.sendGate = gate
		transport.mu.Unlock()

		done := make(chan error, 1)
		go func() { done <- flow.Resend(ctx) }()

		require.Eventually(t, func() bool {
			send, _, _ := transport.calls()
			return send == 2
		}, time.Second, time.Millisecond)

		// Act: the user backs out while the resend call is still in flight.
		flow.Back()
		close(gate)

		// Assert: no cooldown ticker may be running on the credentials stage.
		require.NoError(t, <-done)
		assert.Equal(t, StageCredentials, flow.Stage())
		assert.Equal(t, 0, flow.ResendIn())

		src.mu.Lock()
		tickers := len(src.tickers)
		src.mu.Unlock()
		assert.Equal(t, 1, tickers, "a dropped resend starts no new ticker")
	})
}

func TestCompleteReset(t *testing.T) {
	ctx := context.Background()

	// resetFlow walks a flow to the new-password stage.
	resetFlow := func(t *testing.T, transport *fakeTransport) *Flow {
		t.Helper()

		transport.verifyOK = true
		flow, _ := newTestFlow(t, PurposePasswordReset, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))

		verified, err := flow.Input(ctx, "123456")
		require.NoError(t, err)
		require.True(t, verified)
		require.Equal(t, StageResetPassword, flow.Stage())
		return flow
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow := resetFlow(t, transport)

		// Act
		err := flow.CompleteReset(ctx, "Str0ng!Pass", "Str0ng!Pass")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, StageDone, flow.Stage())
		assert.Equal(t, "Str0ng!Pass", transport.lastPassword)
	})

	t.Run("ConfirmationMismatch", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow := resetFlow(t, transport)

		// Act
		err := flow.CompleteReset(ctx, "Str0ng!Pass", "Other!Pass1")

		// Assert
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		_, _, update := transport.calls()
		assert.Equal(t, 0, update)
	})

	t.Run("PolicyViolationsListEveryRule", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow := resetFlow(t, transport)

		// Act
		err := flow.CompleteReset(ctx, "short", "short")

		// Assert
		var policyErr *PasswordPolicyError
		require.ErrorAs(t, err, &policyErr)
		assert.Contains(t, policyErr.Rules, validator.PasswordRuleMinLength)
		assert.Contains(t, policyErr.Rules, validator.PasswordRuleUppercase)
		assert.Contains(t, policyErr.Rules, validator.PasswordRuleDigit)
		assert.Contains(t, policyErr.Rules, validator.PasswordRuleSpecial)
		assert.Equal(t, StageResetPassword, flow.Stage())
	})

	t.Run("RejectedBeforeVerification", func(t *testing.T) {
		// Arrange
		flow, _ := newTestFlow(t, PurposePasswordReset, &fakeTransport{})

		// Act
		err := flow.CompleteReset(ctx, "Str0ng!Pass", "Str0ng!Pass")

		// Assert
		assert.ErrorIs(t, err, ErrStage)
	})
}

func TestBack(t *testing.T) {
	ctx := context.Background()

	t.Run("ClearsPendingState", func(t *testing.T) {
		// Arrange
		transport := &fakeTransport{}
		flow, _ := newTestFlow(t, PurposeSignup, transport)
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))
		_, _ = flow.Input(ctx, "123")

		// Act
		flow.Back()

		// Assert
		assert.Equal(t, StageCredentials, flow.Stage())
		assert.Empty(t, flow.CodeInput())
		assert.Equal(t, 0, flow.ResendIn())

		// Starting over works.
		require.NoError(t, flow.Submit(ctx, "anna@example.com"))
		assert.Equal(t, StageAwaitingOTP, flow.Stage())
	})

	t.Run("NoOpOnCredentials", func(t *testing.T) {
		// Arrange
		flow, _ := newTestFlow(t, PurposeSignup, &fakeTransport{})

		// Act
		flow.Back()

		// Assert
		assert.Equal(t, StageCredentials, flow.Stage())
	})
}
