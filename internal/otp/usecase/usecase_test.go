package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	mu    sync.Mutex
	codes map[int64]entity.OneTimeCode

	createErr    error
	consumeErr   error
	incrementErr error

	supersededTargets int
}

func newFakeDB() *fakeDB {
	return &fakeDB{codes: map[int64]entity.OneTimeCode{}}
}

func (f *fakeDB) GetLatestCode(_ context.Context, email string, purpose entity.Purpose) (*entity.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *entity.OneTimeCode
	for id := range f.codes {
		rec := f.codes[id]
		if rec.Email != email || rec.Purpose != purpose {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = &rec
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}
	return latest, nil
}

func (f *fakeDB) CreateCode(_ context.Context, code entity.OneTimeCode) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[code.ID] = code
	return nil
}

func (f *fakeDB) ConsumeCode(_ context.Context, id int64, codeHash string, now time.Time, maxAttempts int16) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.codes[id]
	if !ok || rec.CodeHash != codeHash || rec.Expired(now) || rec.Attempts >= maxAttempts {
		return false, nil
	}
	delete(f.codes, id)
	return true, nil
}

func (f *fakeDB) IncrementAttempts(_ context.Context, id int64) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if rec, ok := f.codes[id]; ok {
		rec.Attempts++
		f.codes[id] = rec
	}
	return nil
}

func (f *fakeDB) DeleteCode(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.codes, id)
	return nil
}

func (f *fakeDB) DeleteCodesByTarget(_ context.Context, email string, purpose entity.Purpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.supersededTargets++
	for id := range f.codes {
		if f.codes[id].Email == email && f.codes[id].Purpose == purpose {
			delete(f.codes, id)
		}
	}
	return nil
}

func (f *fakeDB) DeleteExpiredCodes(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for id := range f.codes {
		if f.codes[id].Expired(now) {
			delete(f.codes, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeDB) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.codes)
}

type fakeCache struct {
	mu sync.Mutex

	throttled    bool
	throttleLeft time.Duration
	throttleErr  error
	released     int

	verified    map[string]bool
	verifiedErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{verified: map[string]bool{}}
}

func (f *fakeCache) AcquireThrottle(_ context.Context, _ string, _ entity.Purpose, _ time.Duration) (bool, time.Duration, error) {
	if f.throttleErr != nil {
		return false, 0, f.throttleErr
	}
	if f.throttled {
		return false, f.throttleLeft, nil
	}
	return true, 0, nil
}

func (f *fakeCache) ReleaseThrottle(_ context.Context, _ string, _ entity.Purpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func (f *fakeCache) PutVerified(_ context.Context, email string, purpose entity.Purpose, _ time.Duration) error {
	if f.verifiedErr != nil {
		return f.verifiedErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified[email+":"+purpose.String()] = true
	return nil
}

func (f *fakeCache) TakeVerified(_ context.Context, email string, purpose entity.Purpose) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := email + ":" + purpose.String()
	if f.verified[key] {
		delete(f.verified, key)
		return true, nil
	}
	return false, nil
}

type fakeEmail struct {
	mu sync.Mutex

	reason entity.DeliveryReason
	err    error

	sentTo   []string
	sentCode string
}

func (f *fakeEmail) SendCode(_ context.Context, email string, _ entity.Purpose, code string, _ time.Duration) (entity.DeliveryReason, error) {
	if f.err != nil {
		return f.reason, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentTo = append(f.sentTo, email)
	f.sentCode = code
	return "", nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []OTPIssuedEvent
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqNumberID struct{ next int64 }

func (s *seqNumberID) Generate() int64 {
	s.next++
	return s.next
}

type fixture struct {
	uc    *Usecase
	db    *fakeDB
	cache *fakeCache
	email *fakeEmail
	msg   *fakeMessaging
	hmac  hash.Hash
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  otp:
    ttl_seconds: 120
    resend_cooldown_seconds: 60
    max_attempts: 5
    verified_ttl_minutes: 10
`))
	require.NoError(t, err)

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		db:    newFakeDB(),
		cache: newFakeCache(),
		email: &fakeEmail{},
		msg:   &fakeMessaging{},
		hmac:  hash.NewHMACSHA256("test-secret"),
		now:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoCache:     f.cache,
		RepoEmail:     f.email,
		RepoMessaging: f.msg,
		Validator:     v10,
		Config:        cfg,
		HMAC:          f.hmac,
		UID:           &seqNumberID{},
		Clock:         fixedClock{now: f.now},
		Instrument:    instrument.NewNoop(),
	})

	return f
}

// seed stores a code for the target and returns its row.
func (f *fixture) seed(t *testing.T, email, code string, purpose entity.Purpose, attempts int16, expiresAt time.Time) entity.OneTimeCode {
	t.Helper()

	h, err := f.hmac.Hash(code)
	require.NoError(t, err)

	rec := entity.OneTimeCode{
		ID:        int64(len(f.db.codes) + 100),
		Email:     email,
		Purpose:   purpose,
		CodeHash:  string(h),
		Attempts:  attempts,
		CreatedAt: f.now.Add(-time.Second),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, f.db.CreateCode(context.Background(), rec))
	return rec
}

func TestGenerateCode(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)

	for range 50 {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.Send(ctx, SendInput{Email: "Anna@Example.COM", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		require.Len(t, f.email.sentTo, 1)
		assert.Equal(t, "anna@example.com", f.email.sentTo[0])
		assert.Regexp(t, `^\d{6}$`, f.email.sentCode)
		require.Len(t, f.msg.events, 1)
		assert.Equal(t, entity.PurposeSignup, f.msg.events[0].Purpose)

		rec, err := f.db.GetLatestCode(ctx, "anna@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.EqualValues(t, 0, rec.Attempts)
		assert.Equal(t, f.now.Add(2*time.Minute), rec.ExpiresAt)
	})

	t.Run("SupersedesPreviousCode", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "111111", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		// Act
		err := f.uc.Send(ctx, SendInput{Email: "anna@example.com", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, f.db.count())

		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "111111", Purpose: "signup"})
		require.NoError(t, err)
		assert.False(t, out.Verified)
	})

	t.Run("Throttled", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.cache.throttled = true
		f.cache.throttleLeft = 42 * time.Second

		// Act
		err := f.uc.Send(ctx, SendInput{Email: "anna@example.com", Purpose: "signup"})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeTooManyRequest, appErr.Code())
		assert.Equal(t, "Please wait 42 seconds before requesting a new code", appErr.Msg())
		assert.Equal(t, 0, f.db.count())
	})

	t.Run("DeliveryFailedUndoesIssue", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.email.reason = entity.DeliveryRateLimited
		f.email.err = errors.New("smtp 429")

		// Act
		err := f.uc.Send(ctx, SendInput{Email: "anna@example.com", Purpose: "password_reset"})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeTooManyRequest, appErr.Code())
		assert.Equal(t, "Email delivery failed: RateLimited", appErr.Msg())
		assert.Equal(t, 0, f.db.count(), "undelivered code must not stay live")
		assert.Equal(t, 1, f.cache.released, "cooldown must be released so the user can retry")
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.Send(ctx, SendInput{Email: "not-an-email", Purpose: "signup"})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.TypeValidation, appErr.Type())
	})

	t.Run("UnknownPurpose", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.Send(ctx, SendInput{Email: "anna@example.com", Purpose: "mfa"})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.TypeValidation, appErr.Type())
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		// Act
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.True(t, out.Verified)
		assert.Equal(t, 0, f.db.count(), "a verified code is single use")

		ok, err := f.uc.ConsumeVerification(ctx, "anna@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("SecondUseFails", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		first, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})
		require.NoError(t, err)
		require.True(t, first.Verified)

		// Act
		second, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.False(t, second.Verified)
		assert.Equal(t, "Code expired or not found, request a new one", second.Message)
	})

	t.Run("WrongCodeIncrementsAttempts", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		rec := f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		// Act
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "654321", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.False(t, out.Verified)
		assert.Equal(t, "Invalid code", out.Message)

		stored, err := f.db.GetLatestCode(ctx, "anna@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.Equal(t, rec.Attempts+1, stored.Attempts)
	})

	t.Run("FifthWrongAttemptExhausts", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		for range 5 {
			out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "000000", Purpose: "signup"})
			require.NoError(t, err)
			require.Equal(t, "Invalid code", out.Message)
		}

		// Act: even the correct code is refused once attempts are exhausted.
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.False(t, out.Verified)
		assert.Equal(t, "Code expired or not found, request a new one", out.Message)
		assert.Equal(t, 0, f.db.count(), "exhausted code is purged")
	})

	t.Run("ExhaustedMatchesExpiredMessage", func(t *testing.T) {
		// Arrange: one expired code, one live code with no attempts left.
		// Submitting the correct digits against either must produce the
		// same rejection, so callers cannot tell the two conditions apart.
		expired := newFixture(t)
		expired.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, expired.now.Add(-time.Second))

		exhausted := newFixture(t)
		exhausted.seed(t, "anna@example.com", "654321", entity.PurposeSignup, 5, exhausted.now.Add(time.Minute))

		// Act
		outExpired, err := expired.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})
		require.NoError(t, err)
		outExhausted, err := exhausted.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "654321", Purpose: "signup"})
		require.NoError(t, err)

		// Assert
		assert.False(t, outExpired.Verified)
		assert.False(t, outExhausted.Verified)
		assert.Equal(t, outExpired.Message, outExhausted.Message)
	})

	t.Run("Expired", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(-time.Second))

		// Act
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.False(t, out.Verified)
		assert.Equal(t, "Code expired or not found, request a new one", out.Message)
		assert.Equal(t, 0, f.db.count())
	})

	t.Run("NoCodeForTarget", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})

		// Assert
		require.NoError(t, err)
		assert.False(t, out.Verified)
		assert.Equal(t, "Code expired or not found, request a new one", out.Message)
	})

	t.Run("PurposeDoesNotCross", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		// Act
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "password_reset"})

		// Assert
		require.NoError(t, err)
		assert.False(t, out.Verified)
	})

	t.Run("ConcurrentSubmissionsSingleWinner", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))

		const racers = 16
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			winner int
		)

		// Act
		for range racers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})
				if err == nil && out.Verified {
					mu.Lock()
					winner++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		// Assert
		assert.Equal(t, 1, winner, "exactly one concurrent submission may verify")
	})

	t.Run("MarkerFailureNeverReportsVerified", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.seed(t, "anna@example.com", "123456", entity.PurposeSignup, 0, f.now.Add(time.Minute))
		f.cache.verifiedErr = errors.New("redis down")

		// Act
		out, err := f.uc.Verify(ctx, VerifyInput{Email: "anna@example.com", Code: "123456", Purpose: "signup"})

		// Assert
		require.Error(t, err)
		assert.Nil(t, out)
	})
}

func TestConsumeVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("SingleUse", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		require.NoError(t, f.cache.PutVerified(ctx, "anna@example.com", entity.PurposePasswordReset, time.Minute))

		// Act
		first, err1 := f.uc.ConsumeVerification(ctx, "Anna@example.com ", entity.PurposePasswordReset)
		second, err2 := f.uc.ConsumeVerification(ctx, "anna@example.com", entity.PurposePasswordReset)

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.True(t, first)
		assert.False(t, second)
	})
}
