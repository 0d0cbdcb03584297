package authflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"go.uber.org/atomic"
)

// Stage identifies where the user is in the flow.
type Stage int

const (
	StageCredentials Stage = iota
	StageAwaitingOTP
	StageResetPassword
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCredentials:
		return "credentials"
	case StageAwaitingOTP:
		return "awaiting_otp"
	case StageResetPassword:
		return "reset_password"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Purpose selects the flow variant. Signup finishes after verification;
// password reset continues to the new-password stage.
type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposePasswordReset Purpose = "password_reset"
)

const (
	codeLength             = 6
	defaultCooldownSeconds = 60
)

var (
	// ErrBusy is returned when a network call is already in flight.
	ErrBusy = errors.New("authflow: an operation is already in progress")

	// ErrCooldown is returned by Resend before the cooldown elapses. No
	// network call is made.
	ErrCooldown = errors.New("authflow: resend is cooling down")

	// ErrStage is returned when an operation is not valid for the current
	// stage.
	ErrStage = errors.New("authflow: operation not allowed in current stage")

	// ErrPasswordMismatch is returned when the confirmation does not match
	// the new password.
	ErrPasswordMismatch = errors.New("authflow: passwords do not match")
)

// PasswordPolicyError lists every policy rule the new password violates.
type PasswordPolicyError struct {
	Rules []string
}

func (e *PasswordPolicyError) Error() string {
	return "authflow: password violates policy rules: " + strings.Join(e.Rules, ", ")
}

// Ticker abstracts time.Ticker so tests can drive the cooldown by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds the one-second cooldown ticker.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Config configures a Flow.
type Config struct {
	Transport       Transport
	Purpose         Purpose
	CooldownSeconds int           // defaults to 60
	NewTicker       TickerFactory // defaults to time.NewTicker
}

// Flow is the client flow state machine. All methods are safe for
// concurrent use.
type Flow struct {
	mu sync.Mutex

	transport Transport
	purpose   Purpose
	cooldown  int
	newTicker TickerFactory

	stage         Stage
	email         string
	input         string
	autoSubmitted bool
	remaining     int
	ticker        Ticker
	tickStop      chan struct{}

	loading atomic.Bool
}

// New builds a Flow in the credentials stage.
func New(cfg Config) (*Flow, error) {
	if cfg.Transport == nil {
		return nil, errors.New("authflow: transport is required")
	}
	if cfg.Purpose != PurposeSignup && cfg.Purpose != PurposePasswordReset {
		return nil, errors.New("authflow: unknown purpose")
	}
	if cfg.CooldownSeconds <= 0 {
		cfg.CooldownSeconds = defaultCooldownSeconds
	}
	if cfg.NewTicker == nil {
		cfg.NewTicker = func(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }
	}

	return &Flow{
		transport: cfg.Transport,
		purpose:   cfg.Purpose,
		cooldown:  cfg.CooldownSeconds,
		newTicker: cfg.NewTicker,
		stage:     StageCredentials,
	}, nil
}

// Stage reports the current stage.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// ResendIn reports the seconds left before Resend is allowed again.
func (f *Flow) ResendIn() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}

// CodeInput reports the digits entered so far.
func (f *Flow) CodeInput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Submit sends the initial code for email and moves to the code-entry stage.
// A failed send keeps the flow in the credentials stage.
func (f *Flow) Submit(ctx context.Context, email string) error {
	if !f.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.loading.Store(false)

	f.mu.Lock()
	if f.stage != StageCredentials {
		f.mu.Unlock()
		return ErrStage
	}
	f.mu.Unlock()

	if err := f.transport.SendCode(ctx, email, f.purpose); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
	f.input = ""
	f.autoSubmitted = false
	f.stage = StageAwaitingOTP
	f.startCooldownLocked()
	return nil
}

// Input appends digits to the code field, ignoring other characters and
// capping at six. Reaching six digits verifies automatically, exactly once
// per fill. A rejected code clears the field and stays in the code-entry
// stage; an accepted code advances.
func (f *Flow) Input(ctx context.Context, s string) (bool, error) {
	f.mu.Lock()
	if f.stage != StageAwaitingOTP {
		f.mu.Unlock()
		return false, ErrStage
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if len(f.input) == codeLength {
			break
		}
		f.input += string(r)
	}

	if len(f.input) < codeLength || f.autoSubmitted {
		f.mu.Unlock()
		return false, nil
	}

	if !f.loading.CompareAndSwap(false, true) {
		f.mu.Unlock()
		return false, ErrBusy
	}
	defer f.loading.Store(false)

	f.autoSubmitted = true
	email, code := f.email, f.input
	f.mu.Unlock()

	verified, err := f.transport.VerifyCode(ctx, email, code, f.purpose)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StageAwaitingOTP {
		// Back ran while the call was in flight; its reset stands and the
		// result is discarded.
		return false, nil
	}

	if err != nil {
		// Transport failure, not a rejection. Allow a retry with the same digits.
		f.autoSubmitted = false
		return false, err
	}

	if !verified {
		f.input = ""
		f.autoSubmitted = false
		return false, nil
	}

	f.input = ""
	f.stopCooldownLocked()
	if f.purpose == PurposePasswordReset {
		f.stage = StageResetPassword
	} else {
		f.stage = StageDone
	}
	return true, nil
}

// Resend re-issues the code once the cooldown elapsed and restarts it.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.stage != StageAwaitingOTP {
		f.mu.Unlock()
		return ErrStage
	}
	if f.remaining > 0 {
		f.mu.Unlock()
		return ErrCooldown
	}
	email := f.email
	f.mu.Unlock()

	if !f.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.loading.Store(false)

	if err := f.transport.SendCode(ctx, email, f.purpose); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageAwaitingOTP {
		// Back ran while the send was in flight; do not restart the
		// cooldown ticker in the credentials stage.
		return nil
	}
	f.input = ""
	f.autoSubmitted = false
	f.startCooldownLocked()
	return nil
}

// CompleteReset validates and submits the new password, finishing the
// password-reset variant of the flow.
func (f *Flow) CompleteReset(ctx context.Context, newPassword, confirm string) error {
	f.mu.Lock()
	if f.stage != StageResetPassword {
		f.mu.Unlock()
		return ErrStage
	}
	email := f.email
	f.mu.Unlock()

	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if rules := validator.PasswordViolations(newPassword); len(rules) > 0 {
		return &PasswordPolicyError{Rules: rules}
	}

	if !f.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.loading.Store(false)

	if err := f.transport.UpdatePassword(ctx, email, newPassword); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageResetPassword {
		return nil
	}
	f.stage = StageDone
	f.email = ""
	return nil
}

// Back returns to the credentials stage, clearing pending state and
// stopping the cooldown timer.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StageAwaitingOTP && f.stage != StageResetPassword {
		return
	}

	f.stopCooldownLocked()
	f.stage = StageCredentials
	f.email = ""
	f.input = ""
	f.autoSubmitted = false
}

// Close releases the cooldown timer. The flow must not be used afterwards.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCooldownLocked()
}

func (f *Flow) startCooldownLocked() {
	f.stopCooldownLocked()

	f.remaining = f.cooldown
	f.ticker = f.newTicker(time.Second)
	f.tickStop = make(chan struct{})

	go f.tickLoop(f.ticker, f.tickStop)
}

func (f *Flow) stopCooldownLocked() {
	if f.tickStop == nil {
		return
	}
	close(f.tickStop)
	f.ticker.Stop()
	f.tickStop = nil
	f.ticker = nil
	f.remaining = 0
}

func (f *Flow) tickLoop(tk Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-tk.C():
			f.mu.Lock()
			if f.tickStop != stop {
				// Superseded by a restart.
				f.mu.Unlock()
				return
			}
			if f.remaining > 0 {
				f.remaining--
			}
			if f.remaining == 0 {
				tk.Stop()
				f.tickStop = nil
				f.ticker = nil
				f.mu.Unlock()
				return
			}
			f.mu.Unlock()
		}
	}
}
