package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Transport is the network boundary of the flow. Implementations call the
// backend's one-time code and password endpoints.
type Transport interface {
	// SendCode asks the backend to issue and deliver a code.
	SendCode(ctx context.Context, email string, purpose Purpose) error

	// VerifyCode submits a code and reports whether it was accepted.
	VerifyCode(ctx context.Context, email, code string, purpose Purpose) (bool, error)

	// UpdatePassword sets a new password after a verified reset flow.
	UpdatePassword(ctx context.Context, email, newPassword string) error
}

const defaultHTTPTimeout = 15 * time.Second

// HTTPTransport implements Transport against the HTTP API.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport returns a Transport targeting baseURL, e.g.
// "https://api.shiftbuddy.app". A nil client gets a sane default timeout.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPTransport{baseURL: baseURL, client: client}
}

type sendCodeRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Type  string `json:"type"`
}

type updatePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type responseEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type verifyCodeData struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

func (t *HTTPTransport) SendCode(ctx context.Context, email string, purpose Purpose) error {
	_, err := t.post(ctx, "/api/v1/otp/send", sendCodeRequest{
		Email: email,
		Type:  string(purpose),
	})
	return err
}

func (t *HTTPTransport) VerifyCode(ctx context.Context, email, code string, purpose Purpose) (bool, error) {
	env, err := t.post(ctx, "/api/v1/otp/verify", verifyCodeRequest{
		Email: email,
		OTP:   code,
		Type:  string(purpose),
	})
	if err != nil {
		return false, err
	}

	var data verifyCodeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return false, fmt.Errorf("decode verify response: %w", err)
	}

	return data.Verified, nil
}

func (t *HTTPTransport) UpdatePassword(ctx context.Context, email, newPassword string) error {
	_, err := t.post(ctx, "/api/v1/identity/password/reset", updatePasswordRequest{
		Email:       email,
		NewPassword: newPassword,
	})
	return err
}

func (t *HTTPTransport) post(ctx context.Context, path string, payload any) (*responseEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if env.Message != "" {
			return nil, fmt.Errorf("%s: %s", path, env.Message)
		}
		return nil, fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	return &env, nil
}
