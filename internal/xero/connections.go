package xero

import (
	"context"
	"fmt"
)

// Connections lists the organizations this token is authorized against.
func (c *Client) Connections(ctx context.Context, accessToken string) ([]Connection, error) {
	var connections []Connection
	if err := c.get(ctx, c.apiURL+"/connections", accessToken, "", &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// Authorize runs the full one-time authorization flow: exchange the code for
// a token set, select the first connected organization, and persist tokens
// then organization config. Returns the organization name for display.
func (c *Client) Authorize(ctx context.Context, code string) (string, error) {
	tokens, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	connections, err := c.Connections(ctx, tokens.AccessToken)
	if err != nil {
		return "", err
	}
	if len(connections) == 0 {
		return "", ErrNoOrganization
	}

	// First organization wins; this deployment assumes exactly one.
	tenant := connections[0]

	if err := c.storage.SaveTokens(ctx, tokens); err != nil {
		return "", fmt.Errorf("failed to save tokens: %w", err)
	}
	if err := c.storage.SaveConfig(ctx, &OrgConfig{
		TenantID:    tenant.TenantID,
		TenantName:  tenant.TenantName,
		TenantType:  tenant.TenantType,
		ConnectedAt: c.now(),
	}); err != nil {
		return "", fmt.Errorf("failed to save organization config: %w", err)
	}

	return tenant.TenantName, nil
}
