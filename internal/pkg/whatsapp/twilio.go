package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrAccountCredentialsRequired is returned when account SID or auth token are missing.
var ErrAccountCredentialsRequired = errors.New("whatsapp: account sid and auth token are required")

// ErrRejected means the gateway rejected the message permanently (4xx);
// retrying the same payload will not succeed.
var ErrRejected = errors.New("whatsapp: message rejected")

// Client sends WhatsApp messages through the Twilio Messages API.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// Config configures the Twilio client.
type Config struct {
	// BaseURL is the API root; defaults to the public Twilio endpoint.
	BaseURL string
	// AccountSID identifies the Twilio account.
	AccountSID string
	// AuthToken authenticates API requests.
	AuthToken string
	// From is the sending WhatsApp number in E.164 form, without the
	// "whatsapp:" prefix.
	From string
	// Timeout bounds a single attempt; defaults to 10s.
	Timeout time.Duration
}

// New constructs a Twilio WhatsApp client.
func New(cfg Config) (*Client, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, ErrAccountCredentialsRequired
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// Send delivers body to the given E.164 number. Gateway 5xx responses and
// transport errors are retried with capped fibonacci backoff; 4xx responses
// fail immediately with ErrRejected.
func (c *Client) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("From", "whatsapp:"+c.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", body)
	payload := form.Encode()

	b := retry.NewFibonacci(500 * time.Millisecond)
	b = retry.WithMaxRetries(3, b)
	b = retry.WithCappedDuration(5*time.Second, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.accountSID, c.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, detail))
		}

		return fmt.Errorf("%w: %d: %s", ErrRejected, resp.StatusCode, detail)
	})
}

// Close implements io.Closer for interface compatibility.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
