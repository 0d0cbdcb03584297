package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("RequiresCredentials", func(t *testing.T) {
		_, err := New(Config{AccountSID: "AC123"})
		assert.ErrorIs(t, err, ErrAccountCredentialsRequired)

		_, err = New(Config{AuthToken: "secret"})
		assert.ErrorIs(t, err, ErrAccountCredentialsRequired)
	})

	t.Run("DefaultsBaseURLAndTimeout", func(t *testing.T) {
		client, err := New(Config{AccountSID: "AC123", AuthToken: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "https://api.twilio.com", client.baseURL)
		assert.Equal(t, 10*time.Second, client.client.Timeout)
	})
}

func TestSend(t *testing.T) {
	newClient := func(t *testing.T, baseURL string) *Client {
		t.Helper()
		client, err := New(Config{
			BaseURL:    baseURL,
			AccountSID: "AC123",
			AuthToken:  "secret",
			From:       "+919800000001",
			Timeout:    2 * time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })
		return client
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		var gotPath, gotFrom, gotTo, gotBody string
		var gotUser, gotPass string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, gotPass, _ = r.BasicAuth()
			require.NoError(t, r.ParseForm())
			gotFrom = r.PostFormValue("From")
			gotTo = r.PostFormValue("To")
			gotBody = r.PostFormValue("Body")
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()
		client := newClient(t, srv.URL)

		// Act
		err := client.Send(context.Background(), "+919800000002", "Interview tomorrow at 10am")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
		assert.Equal(t, "AC123", gotUser)
		assert.Equal(t, "secret", gotPass)
		assert.Equal(t, "whatsapp:+919800000001", gotFrom)
		assert.Equal(t, "whatsapp:+919800000002", gotTo)
		assert.Equal(t, "Interview tomorrow at 10am", gotBody)
	})

	t.Run("RetriesGatewayFailures", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()
		client := newClient(t, srv.URL)

		// Act
		err := client.Send(context.Background(), "+919800000002", "hello")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("RejectionIsNotRetried", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()
		client := newClient(t, srv.URL)

		// Act
		err := client.Send(context.Background(), "not-a-number", "hello")

		// Assert
		assert.ErrorIs(t, err, ErrRejected)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("GivesUpAfterMaxRetries", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		client := newClient(t, srv.URL)

		// Act
		err := client.Send(context.Background(), "+919800000002", "hello")

		// Assert
		require.Error(t, err)
		assert.Equal(t, int32(4), calls.Load(), "one initial attempt plus three retries")
	})
}
