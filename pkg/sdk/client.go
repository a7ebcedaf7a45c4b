package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps calls to the timber order backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// GetStatus returns the current connection status
func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	var out ApiResponse[StatusResponse]
	if err := c.doJSON(ctx, http.MethodGet, "/api/connection/status", nil, &out); err != nil {
		return nil, err
	}

	if out.Status != StatusSuccess {
		return nil, fmt.Errorf("failed to get status: %s", out.Message)
	}
	return &out.Data, nil
}

// GetOrders returns the current open orders
func (c *Client) GetOrders(ctx context.Context) ([]Order, error) {
	var out ApiResponse[[]Order]
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders", nil, &out); err != nil {
		return nil, err
	}

	if out.Status != StatusSuccess {
		return nil, fmt.Errorf("failed to get orders: %s", out.Message)
	}
	return out.Data, nil
}

// CompleteOrder reports a completed order to the backend
func (c *Client) CompleteOrder(ctx context.Context, req *CompleteOrderRequest) error {
	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders/complete", req, &out); err != nil {
		return err
	}

	if out.Status != StatusSuccess {
		return fmt.Errorf("failed to complete order: %s", out.Message)
	}
	return nil
}

// RunSummary triggers the daily summary outside its schedule
func (c *Client) RunSummary(ctx context.Context) error {
	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodPost, "/api/summary/run", nil, &out); err != nil {
		return err
	}

	if out.Status != StatusSuccess {
		return fmt.Errorf("failed to run summary: %s", out.Message)
	}
	return nil
}

// Disconnect clears the stored connection
func (c *Client) Disconnect(ctx context.Context) error {
	var out ApiResponse[any]
	if err := c.doJSON(ctx, http.MethodPost, "/api/connection/disconnect", nil, &out); err != nil {
		return err
	}

	if out.Status != StatusSuccess {
		return fmt.Errorf("failed to disconnect: %s", out.Message)
	}
	return nil
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	// Create the request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The backend wraps failures in the envelope, so decode regardless of
	// status code; only bail on bodies that are not the envelope at all.
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("backend '%s %s' failed: %d: %v", method, path, resp.StatusCode, err)
	}

	return nil
}
