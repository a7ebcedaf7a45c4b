package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/sales793/torenius-timber/pkg/utils"
)

// Client talks to the Xero identity and accounting APIs for the single
// connected organization. It owns the credential lifecycle (refresh with a
// safety margin) and the invoice retrieval pipeline.
type Client struct {
	oauth   *oauth2.Config
	apiURL  string
	http    *http.Client
	storage CredentialStorage
	now     func() time.Time
}

// NewClient creates a Xero client from configuration. The storage layer is
// injected so the HTTP handlers, the scheduled summary, and tests can share
// one credential store.
func NewClient(cfg *utils.Config, storage CredentialStorage) *Client {
	identityURL := cfg.GetWithDefault("XERO_IDENTITY_URL", "https://identity.xero.com")

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.Get("XERO_CLIENT_ID"),
			ClientSecret: cfg.Get("XERO_CLIENT_SECRET"),
			RedirectURL:  cfg.Get("XERO_REDIRECT_URI"),
			Endpoint: oauth2.Endpoint{
				TokenURL: identityURL + "/connect/token",
				// Xero requires client credentials via HTTP Basic auth
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiURL:  cfg.GetWithDefault("XERO_API_URL", "https://api.xero.com"),
		http:    &http.Client{Timeout: 30 * time.Second},
		storage: storage,
		now:     time.Now,
	}
}

// Storage returns the credential store this client was built with.
func (c *Client) Storage() CredentialStorage {
	return c.storage
}

// httpContext makes the oauth2 package use our timeout-configured client.
func (c *Client) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

// get performs an authenticated GET against the accounting API and decodes
// the JSON response into out. Transport failures are retried once; these
// requests are idempotent.
func (c *Client) get(ctx context.Context, url, accessToken, tenantID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if tenantID != "" {
		req.Header.Set("Xero-Tenant-Id", tenantID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		resp, err = c.http.Do(req.Clone(ctx))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s returned %d: %s", ErrUpstream, url, resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", ErrUpstream, err)
	}
	return nil
}
