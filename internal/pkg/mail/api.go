package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrAPIBaseURLKeyRequired is returned when BaseURL or APIKey are missing.
var ErrAPIBaseURLKeyRequired = errors.New("mail api base url and api key are required")

// API is a Mail implementation backed by an HTTP email provider
// (Resend-compatible request shape: POST {base}/emails with a bearer key).
type API struct {
	baseURL     string
	apiKey      string
	defaultFrom string
	client      *http.Client
}

// APIConfig configures the HTTP API implementation.
type APIConfig struct {
	// BaseURL is the provider endpoint root, e.g. https://api.resend.com.
	BaseURL string
	// APIKey is the bearer token.
	APIKey string
	// From is the default sender when Message.From is empty.
	From string
	// Timeout bounds a single send; defaults to 10s.
	Timeout time.Duration
}

// NewAPI constructs an HTTP API mail sender.
func NewAPI(cfg APIConfig) (*API, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, ErrAPIBaseURLKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &API{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		defaultFrom: cfg.From,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

type apiPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// Send delivers a message through the provider API and classifies auth and
// throttling responses into the package's sentinel errors.
func (a *API) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 && len(msg.Cc) == 0 && len(msg.Bcc) == 0 {
		return ErrSMTPNoRecipients
	}

	from := msg.From
	if from == "" {
		from = a.defaultFrom
	}
	if from == "" {
		return ErrSMTPNoSender
	}

	body, err := json.Marshal(apiPayload{
		From:    from,
		To:      msg.To,
		Cc:      msg.Cc,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		Text:    msg.TextBody,
		HTML:    msg.HTMLBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, detail)
	default:
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode, detail)
	}
}

// Close implements io.Closer for interface compatibility.
func (a *API) Close() error {
	a.client.CloseIdleConnections()
	return nil
}
