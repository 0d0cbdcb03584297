package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	otpentity "github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/hash"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentityDB struct {
	users     map[string]*entity.User
	loginInfo map[string]*entity.UserLoginInfo

	createUserErr error

	createdUsers    []entity.NewUser
	createdHashes   []string
	refreshTokens   []entity.RefreshToken
	updatedPassword map[int64]string
}

func newFakeIdentityDB() *fakeIdentityDB {
	return &fakeIdentityDB{
		users:           map[string]*entity.User{},
		loginInfo:       map[string]*entity.UserLoginInfo{},
		updatedPassword: map[int64]string{},
	}
}

func (f *fakeIdentityDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return user, nil
}

func (f *fakeIdentityDB) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeIdentityDB) GetUserLoginInfo(_ context.Context, email string) (*entity.UserLoginInfo, error) {
	info, ok := f.loginInfo[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return info, nil
}

func (f *fakeIdentityDB) GetUserRefreshToken(_ context.Context, _ string) (*entity.UserRefreshToken, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeIdentityDB) CreateUser(_ context.Context, user entity.NewUser, passwordHash string) error {
	if f.createUserErr != nil {
		return f.createUserErr
	}
	f.createdUsers = append(f.createdUsers, user)
	f.createdHashes = append(f.createdHashes, passwordHash)
	return nil
}

func (f *fakeIdentityDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.refreshTokens = append(f.refreshTokens, in)
	return nil
}

func (f *fakeIdentityDB) UpdateUserPassword(_ context.Context, userID int64, passwordHash string) error {
	f.updatedPassword[userID] = passwordHash
	return nil
}

func (f *fakeIdentityDB) RotateRefreshToken(_ context.Context, _ int64, _ entity.RefreshToken) error {
	return nil
}

func (f *fakeIdentityDB) RevokeRefreshToken(_ context.Context, _ string) error { return nil }

type fakeIdentityMessaging struct {
	registered      []UserRegisteredEvent
	passwordChanged []PasswordChangedEvent
}

func (f *fakeIdentityMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.registered = append(f.registered, msg)
	return nil
}

func (f *fakeIdentityMessaging) PublishPasswordChanged(_ context.Context, msg PasswordChangedEvent) error {
	f.passwordChanged = append(f.passwordChanged, msg)
	return nil
}

// fakeOTPVerifier hands out each recorded marker once, like the real thing.
type fakeOTPVerifier struct {
	markers    map[string]bool
	consumeErr error
	consumed   []string
}

func markerKey(email string, purpose otpentity.Purpose) string {
	return fmt.Sprintf("%s|%d", email, purpose)
}

func (f *fakeOTPVerifier) ConsumeVerification(_ context.Context, email string, purpose otpentity.Purpose) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	key := markerKey(email, purpose)
	f.consumed = append(f.consumed, key)
	if !f.markers[key] {
		return false, nil
	}
	delete(f.markers, key)
	return true, nil
}

type fakeJWT struct{ generateErr error }

func (f fakeJWT) Generate(uid int64, _ string) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return fmt.Sprintf("access-%d", uid), nil
}

func (f fakeJWT) Verify(_ string) (jwt.Claims, error) {
	return jwt.Claims{}, jwt.ErrInvalidToken
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqNumberID struct{ next int64 }

func (s *seqNumberID) Generate() int64 {
	s.next++
	return s.next
}

type seqStringID struct{ next int }

func (s *seqStringID) Generate() string {
	s.next++
	return fmt.Sprintf("opaque-token-%d", s.next)
}

type identityFixture struct {
	uc  *Usecase
	db  *fakeIdentityDB
	msg *fakeIdentityMessaging
	otp *fakeOTPVerifier
	pw  hash.Hash
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  identity:
    refresh_token_ttl_days: 30
`))
	require.NoError(t, err)

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &identityFixture{
		db:  newFakeIdentityDB(),
		msg: &fakeIdentityMessaging{},
		otp: &fakeOTPVerifier{markers: map[string]bool{}},
		pw:  hash.NewHMACSHA256("password-secret"),
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.msg,
		OTPVerifier:   f.otp,
		Validator:     v10,
		Config:        cfg,
		Password:      f.pw,
		HMAC:          hash.NewHMACSHA256("token-secret"),
		UID:           &seqNumberID{},
		OID:           &seqStringID{},
		Clock:         fixedClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
	})

	return f
}

func validSignup() SignupInput {
	return SignupInput{
		Email:    "Nisha@Example.Com",
		Password: "Str0ng!Pass",
		FullName: "Nisha Rao",
		Role:     "student",
	}
}

func TestSignup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		f.otp.markers[markerKey("nisha@example.com", otpentity.PurposeSignup)] = true

		// Act
		out, err := f.uc.Signup(context.Background(), validSignup())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "nisha@example.com", out.Email)
		assert.Equal(t, "student", out.Role)
		assert.Equal(t, fmt.Sprintf("access-%d", out.UserID), out.AccessToken)
		assert.NotEmpty(t, out.RefreshToken)

		require.Len(t, f.db.createdUsers, 1)
		assert.Equal(t, entity.UserStatusActive, f.db.createdUsers[0].Status)
		require.Len(t, f.db.refreshTokens, 1)
		assert.Equal(t, f.uc.clock.Now().Add(30*24*time.Hour), f.db.refreshTokens[0].ExpiresAt)
		require.Len(t, f.msg.registered, 1)
		assert.Equal(t, "Nisha Rao", f.msg.registered[0].FullName)
	})

	t.Run("RefusedWithoutVerifiedEmail", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)

		// Act
		_, err := f.uc.Signup(context.Background(), validSignup())

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeForbidden, appErr.Code())
		assert.Equal(t, "Email not verified, request and verify a code first", appErr.Msg())
		assert.Empty(t, f.db.createdUsers)
	})

	t.Run("VerificationMarkerIsSingleUse", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		f.otp.markers[markerKey("nisha@example.com", otpentity.PurposeSignup)] = true

		_, err := f.uc.Signup(context.Background(), validSignup())
		require.NoError(t, err)

		// Act
		_, err = f.uc.Signup(context.Background(), validSignup())

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeForbidden, appErr.Code())
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		f.otp.markers[markerKey("nisha@example.com", otpentity.PurposeSignup)] = true
		f.db.createUserErr = goerror.ErrConflict

		// Act
		_, err := f.uc.Signup(context.Background(), validSignup())

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeConflict, appErr.Code())
		assert.Equal(t, "Email already registered", appErr.Msg())
	})

	t.Run("WeakPasswordListsEveryViolatedRule", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		in := validSignup()
		in.Password = "short"

		// Act
		_, err := f.uc.Signup(context.Background(), in)

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.TypeValidation, appErr.Type())

		rules := appErr.Fields()["password"]
		for _, rule := range []string{
			validator.PasswordRuleMinLength,
			validator.PasswordRuleUppercase,
			validator.PasswordRuleDigit,
			validator.PasswordRuleSpecial,
		} {
			assert.Contains(t, rules, rule)
		}
		assert.NotContains(t, rules, validator.PasswordRuleLowercase)
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		in := validSignup()
		in.Role = "admin"

		// Act
		_, err := f.uc.Signup(context.Background(), in)

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.TypeValidation, appErr.Type())
	})
}

func TestLogin(t *testing.T) {
	seed := func(t *testing.T, f *identityFixture, status entity.UserStatus) {
		t.Helper()
		hashed, err := f.pw.Hash("Str0ng!Pass")
		require.NoError(t, err)
		f.db.loginInfo["nisha@example.com"] = &entity.UserLoginInfo{
			ID:       77,
			Email:    "nisha@example.com",
			Role:     entity.UserRoleStudent,
			Status:   status,
			Password: string(hashed),
		}
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seed(t, f, entity.UserStatusActive)

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{
			Email:    "  Nisha@Example.Com ",
			Password: "Str0ng!Pass",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(77), out.UserID)
		assert.Equal(t, "student", out.Role)
		assert.Equal(t, "access-77", out.AccessToken)
		require.Len(t, f.db.refreshTokens, 1)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seed(t, f, entity.UserStatusActive)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{
			Email:    "nisha@example.com",
			Password: "Wr0ng!Pass!",
		})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeUnauthorized, appErr.Code())
		assert.Equal(t, "invalid email or password", appErr.Msg())
	})

	t.Run("UnknownEmailSameAnswerAsWrongPassword", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "Str0ng!Pass",
		})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeUnauthorized, appErr.Code())
		assert.Equal(t, "invalid email or password", appErr.Msg())
	})

	t.Run("BannedAccountForbidden", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seed(t, f, entity.UserStatusBanned)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{
			Email:    "nisha@example.com",
			Password: "Str0ng!Pass",
		})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeForbidden, appErr.Code())
	})
}

func TestPasswordReset(t *testing.T) {
	seedUser := func(f *identityFixture, status entity.UserStatus) {
		f.db.users["nisha@example.com"] = &entity.User{
			ID:     77,
			Email:  "nisha@example.com",
			Status: status,
		}
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seedUser(f, entity.UserStatusActive)
		f.otp.markers[markerKey("nisha@example.com", otpentity.PurposePasswordReset)] = true

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "Nisha@Example.Com",
			NewPassword: "N3w!Passw0rd",
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, f.pw.Verify(f.db.updatedPassword[77], "N3w!Passw0rd"))
		require.Len(t, f.msg.passwordChanged, 1)
		assert.Equal(t, int64(77), f.msg.passwordChanged[0].UserID)
	})

	t.Run("RefusedWithoutVerifiedCode", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seedUser(f, entity.UserStatusActive)

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "nisha@example.com",
			NewPassword: "N3w!Passw0rd",
		})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeForbidden, appErr.Code())
		assert.Equal(t, "Code not verified, request and verify a code first", appErr.Msg())
		assert.Empty(t, f.db.updatedPassword)
	})

	t.Run("MarkerIsSingleUse", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seedUser(f, entity.UserStatusActive)
		f.otp.markers[markerKey("nisha@example.com", otpentity.PurposePasswordReset)] = true

		in := PasswordResetInput{Email: "nisha@example.com", NewPassword: "N3w!Passw0rd"}
		require.NoError(t, f.uc.PasswordReset(context.Background(), in))

		// Act
		err := f.uc.PasswordReset(context.Background(), in)

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.CodeForbidden, appErr.Code())
	})

	t.Run("UnknownEmailLooksLikeSuccess", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		f.otp.markers[markerKey("ghost@example.com", otpentity.PurposePasswordReset)] = true

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "ghost@example.com",
			NewPassword: "N3w!Passw0rd",
		})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.db.updatedPassword)
		assert.Empty(t, f.msg.passwordChanged)
	})

	t.Run("PolicyCheckedBeforeMarkerSpent", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seedUser(f, entity.UserStatusActive)
		f.otp.markers[markerKey("nisha@example.com", otpentity.PurposePasswordReset)] = true

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "nisha@example.com",
			NewPassword: "weak",
		})

		// Assert
		var appErr *goerror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, goerror.TypeValidation, appErr.Type())
		assert.Contains(t, appErr.Fields()["password"], validator.PasswordRuleMinLength)
		assert.Empty(t, f.otp.consumed, "a rejected password must not spend the marker")
	})

	t.Run("VerifierFailureSurfaces", func(t *testing.T) {
		// Arrange
		f := newIdentityFixture(t)
		seedUser(f, entity.UserStatusActive)
		f.otp.consumeErr = errors.New("cache unreachable")

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Email:       "nisha@example.com",
			NewPassword: "N3w!Passw0rd",
		})

		// Assert
		require.Error(t, err)
		assert.Empty(t, f.db.updatedPassword)
	})
}
