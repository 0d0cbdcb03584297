package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shiftbuddy/shiftbuddy/internal/otp/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	sendErr   error
	sendInput usecase.SendInput

	verifyOut   *usecase.VerifyOutput
	verifyErr   error
	verifyInput usecase.VerifyInput
}

func (f *fakeUC) Send(_ context.Context, in usecase.SendInput) error {
	f.sendInput = in
	return f.sendErr
}

func (f *fakeUC) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	f.verifyInput = in
	return f.verifyOut, f.verifyErr
}

type staticUUID struct{}

func (staticUUID) Generate() string { return "cid-1" }

type rejectAllJWT struct{}

func (rejectAllJWT) Generate(int64, string) (string, error) { return "", jwt.ErrInvalidToken }
func (rejectAllJWT) Verify(string) (jwt.Claims, error)      { return jwt.Claims{}, jwt.ErrInvalidToken }

func newTestRouter(t *testing.T, uc uc) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       staticUUID{},
		JWT:        rejectAllJWT{},
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)
	return r
}

func do(r *router.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func TestSendEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{}
		r := newTestRouter(t, uc)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/send", `{"email":"nisha@example.com","type":"signup"}`)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "If the email address is valid, a verification code has been sent.", resp.Message)

		assert.Equal(t, "nisha@example.com", uc.sendInput.Email)
		assert.Equal(t, "signup", uc.sendInput.Purpose)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		// Arrange
		r := newTestRouter(t, &fakeUC{})

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/send", `{"email":`)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ThrottledMapsTo429", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{
			sendErr: goerror.NewBusiness("Please wait 42 seconds before requesting a new code", goerror.CodeTooManyRequest),
		}
		r := newTestRouter(t, uc)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/send", `{"email":"nisha@example.com","type":"signup"}`)

		// Assert
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Please wait 42 seconds before requesting a new code", resp.Message)
	})

	t.Run("ValidationErrorListsFields", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{
			sendErr: goerror.NewInvalidInput(nil, "email", "email must be a valid email address"),
		}
		r := newTestRouter(t, uc)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/send", `{"email":"nope","type":"signup"}`)

		// Assert
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "email must be a valid email address", resp.Error["email"])
	})
}

func TestVerifyEndpoint(t *testing.T) {
	t.Run("Verified", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{verifyOut: &usecase.VerifyOutput{Verified: true}}
		r := newTestRouter(t, uc)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/verify",
			`{"email":"nisha@example.com","otp":"123456","type":"signup"}`)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		var data VerifyResponse
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.True(t, data.Verified)

		assert.Equal(t, "123456", uc.verifyInput.Code)
	})

	t.Run("RejectedCodeKeeps200WithReason", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{verifyOut: &usecase.VerifyOutput{Verified: false, Message: "Invalid code"}}
		r := newTestRouter(t, uc)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/verify",
			`{"email":"nisha@example.com","otp":"000000","type":"signup"}`)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		var data VerifyResponse
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.False(t, data.Verified)
		assert.Equal(t, "Invalid code", data.Message)
	})

	t.Run("ServerErrorMapsTo500", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{verifyErr: goerror.NewServer(assert.AnError)}
		r := newTestRouter(t, uc)

		// Act
		rec := do(r, http.MethodPost, "/api/v1/otp/verify",
			`{"email":"nisha@example.com","otp":"123456","type":"signup"}`)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
