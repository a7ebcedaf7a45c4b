package connection_module

import (
	"context"
	"fmt"

	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/sdk"
	"github.com/sales793/torenius-timber/pkg/utils"
)

// ConnectionService handles the one-time authorization flow and connection
// status reporting
type ConnectionService struct {
	client *xero.Client
}

var connectionService *ConnectionService

/* ---- INIT ---- */

// Init wires the shared Xero client into this module
func Init(_ *utils.Config, client *xero.Client) error {
	if client == nil {
		return fmt.Errorf("xero client must be provided")
	}

	connectionService = &ConnectionService{client: client}
	return nil
}

/* ---- METHODS ---- */

// Authorize exchanges the authorization code, selects the first connected
// organization, and persists the credential plus organization config.
func (s *ConnectionService) Authorize(ctx context.Context, code string) (string, error) {
	return s.client.Authorize(ctx, code)
}

// Status reports whether a connection exists, which organization it targets,
// and whether the stored access token is already past its expiry.
func (s *ConnectionService) Status(ctx context.Context) (*sdk.StatusResponse, error) {
	storage := s.client.Storage()

	tokens, err := storage.GetTokens(ctx)
	if err != nil {
		return nil, err
	}
	config, err := storage.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	if tokens == nil || config == nil {
		return &sdk.StatusResponse{Connected: false}, nil
	}

	return &sdk.StatusResponse{
		Connected:    true,
		Organization: config.TenantName,
		ConnectedAt:  config.ConnectedAt,
		ExpiresAt:    tokens.ExpiresAt,
		NeedsRefresh: s.client.TokenExpired(tokens),
	}, nil
}

// Disconnect removes the stored credential and organization config.
func (s *ConnectionService) Disconnect(ctx context.Context) error {
	return s.client.Storage().Clear(ctx)
}
