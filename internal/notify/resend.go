package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sales793/torenius-timber/pkg/utils"
)

// ErrNotificationFailed means the email endpoint rejected a delivery. Callers
// log this and carry on; a failed notification never blocks the workflow that
// triggered it.
var ErrNotificationFailed = errors.New("email delivery failed")

// Message is one outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`

	// IdempotencyID deduplicates retried sends on the provider side.
	// Composers set one per logical notification.
	IdempotencyID string `json:"-"`
}

// Client wraps calls to the Resend email API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an email client from configuration. An empty API key is
// allowed: Send becomes a logged no-op, matching local development setups.
func NewClient(cfg *utils.Config) *Client {
	return &Client{
		baseURL:    cfg.GetWithDefault("RESEND_API_URL", "https://api.resend.com"),
		apiKey:     cfg.Get("RESEND_API_KEY"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Send delivers one email. A non-200 response is a delivery failure.
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if !c.Enabled() {
		return fmt.Errorf("%w: no API key configured", ErrNotificationFailed)
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	idempotencyID := msg.IdempotencyID
	if idempotencyID == "" {
		idempotencyID = uuid.NewString()
	}
	req.Header.Set("Idempotency-Key", idempotencyID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrNotificationFailed, resp.StatusCode, string(body))
	}

	return nil
}
