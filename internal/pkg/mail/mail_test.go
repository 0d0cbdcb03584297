package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver(t *testing.T) {
	t.Run("SMTP", func(t *testing.T) {
		m, err := NewFromDriver("smtp", FactoryOptions{
			SMTP: SMTPConfig{Host: "mail.example.com", Port: 587},
		})
		require.NoError(t, err)
		assert.IsType(t, &SMTP{}, m)
	})

	t.Run("API", func(t *testing.T) {
		m, err := NewFromDriver("API", FactoryOptions{
			API: APIConfig{BaseURL: "https://api.resend.com", APIKey: "re_123"},
		})
		require.NoError(t, err)
		assert.IsType(t, &API{}, m)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := NewFromDriver("carrier-pigeon", FactoryOptions{})
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})
}

func TestNewSMTP(t *testing.T) {
	t.Run("RequiresHostAndPort", func(t *testing.T) {
		_, err := NewSMTP(SMTPConfig{Host: "mail.example.com"})
		assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

		_, err = NewSMTP(SMTPConfig{Port: 25})
		assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
	})
}

func TestNewAPI(t *testing.T) {
	t.Run("RequiresBaseURLAndKey", func(t *testing.T) {
		_, err := NewAPI(APIConfig{BaseURL: "https://api.resend.com"})
		assert.ErrorIs(t, err, ErrAPIBaseURLKeyRequired)

		_, err = NewAPI(APIConfig{APIKey: "re_123"})
		assert.ErrorIs(t, err, ErrAPIBaseURLKeyRequired)
	})
}

func TestAPISend(t *testing.T) {
	newSender := func(t *testing.T, baseURL string) *API {
		t.Helper()
		api, err := NewAPI(APIConfig{
			BaseURL: baseURL,
			APIKey:  "re_123",
			From:    "no-reply@shiftbuddy.app",
		})
		require.NoError(t, err)
		t.Cleanup(func() { api.Close() })
		return api
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		var gotAuth string
		var gotPayload apiPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		api := newSender(t, srv.URL)

		// Act
		err := api.Send(context.Background(), Message{
			To:       []string{"nisha@example.com"},
			Subject:  "Welcome to ShiftBuddy",
			TextBody: "Hi Nisha",
			HTMLBody: "<p>Hi Nisha</p>",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Bearer re_123", gotAuth)
		assert.Equal(t, "no-reply@shiftbuddy.app", gotPayload.From)
		assert.Equal(t, []string{"nisha@example.com"}, gotPayload.To)
		assert.Equal(t, "Welcome to ShiftBuddy", gotPayload.Subject)
		assert.Equal(t, "<p>Hi Nisha</p>", gotPayload.HTML)
	})

	t.Run("ExplicitFromWins", func(t *testing.T) {
		// Arrange
		var gotPayload apiPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		api := newSender(t, srv.URL)

		// Act
		err := api.Send(context.Background(), Message{
			From:     "alerts@shiftbuddy.app",
			To:       []string{"nisha@example.com"},
			Subject:  "x",
			TextBody: "x",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "alerts@shiftbuddy.app", gotPayload.From)
	})

	t.Run("NoRecipients", func(t *testing.T) {
		api := newSender(t, "http://127.0.0.1:0")
		err := api.Send(context.Background(), Message{Subject: "x"})
		assert.ErrorIs(t, err, ErrSMTPNoRecipients)
	})

	t.Run("UnauthorizedClassifiesAsInvalidCredentials", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"message":"API key is invalid"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()
		api := newSender(t, srv.URL)

		// Act
		err := api.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "x", TextBody: "x"})

		// Assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("TooManyRequestsClassifiesAsRateLimited", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()
		api := newSender(t, srv.URL)

		// Act
		err := api.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "x", TextBody: "x"})

		// Assert
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("OtherFailuresStayUnclassified", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()
		api := newSender(t, srv.URL)

		// Act
		err := api.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "x", TextBody: "x"})

		// Assert
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ErrRateLimited)
	})
}

func TestClassifySMTP(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{name: "BadCredentials", code: 535, want: ErrInvalidCredentials},
		{name: "AuthRequired", code: 530, want: ErrAuthenticationFailed},
		{name: "MechanismTooWeak", code: 534, want: ErrAuthenticationFailed},
		{name: "EncryptionRequired", code: 538, want: ErrAuthenticationFailed},
		{name: "ServiceUnavailable", code: 421, want: ErrRateLimited},
		{name: "MailboxBusy", code: 450, want: ErrRateLimited},
		{name: "LocalError", code: 451, want: ErrRateLimited},
		{name: "InsufficientStorage", code: 452, want: ErrRateLimited},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := classifySMTP(&textproto.Error{Code: tc.code, Msg: "nope"})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("NilStaysNil", func(t *testing.T) {
		assert.NoError(t, classifySMTP(nil))
	})

	t.Run("UnknownCodesPassThrough", func(t *testing.T) {
		original := &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
		err := classifySMTP(original)
		assert.ErrorIs(t, err, original)
	})
}

func TestBuildBody(t *testing.T) {
	t.Run("TextOnly", func(t *testing.T) {
		body, contentType := buildBody(Message{TextBody: "hello"})
		assert.Equal(t, "hello", body)
		assert.Equal(t, "text/plain; charset=UTF-8", contentType)
	})

	t.Run("HTMLOnly", func(t *testing.T) {
		body, contentType := buildBody(Message{HTMLBody: "<p>hello</p>"})
		assert.Equal(t, "<p>hello</p>", body)
		assert.Equal(t, "text/html; charset=UTF-8", contentType)
	})

	t.Run("BothProduceMultipart", func(t *testing.T) {
		body, contentType := buildBody(Message{TextBody: "hello", HTMLBody: "<p>hello</p>"})
		assert.True(t, strings.HasPrefix(contentType, "multipart/alternative; boundary="))

		boundary := strings.TrimPrefix(contentType, "multipart/alternative; boundary=")
		assert.Contains(t, body, "--"+boundary+"\r\n")
		assert.Contains(t, body, "text/plain; charset=UTF-8")
		assert.Contains(t, body, "text/html; charset=UTF-8")
		assert.True(t, strings.HasSuffix(body, "--"+boundary+"--"))
	})
}
