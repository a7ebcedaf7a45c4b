package orders_module

import (
	"context"
	"fmt"
	"time"

	"github.com/sales793/torenius-timber/internal/notify"
	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/sdk"
	"github.com/sales793/torenius-timber/pkg/utils"
)

// OrdersService serves the normalized order list and handles completion
// webhooks from the mill floor
type OrdersService struct {
	cfg    *utils.Config
	client *xero.Client
	mailer *notify.Client
}

var ordersService *OrdersService

/* ---- INIT ---- */

// Init wires the shared Xero client and email client into this module
func Init(cfg *utils.Config, client *xero.Client, mailer *notify.Client) error {
	if client == nil {
		return fmt.Errorf("xero client must be provided")
	}
	if mailer == nil {
		return fmt.Errorf("notify client must be provided")
	}

	ordersService = &OrdersService{cfg: cfg, client: client, mailer: mailer}
	return nil
}

/* ---- METHODS ---- */

// FetchOrders returns the open orders, newest first. The access token is
// refreshed on the way if it is stale.
func (s *OrdersService) FetchOrders(ctx context.Context) ([]xero.Order, error) {
	accessToken, err := s.client.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	config, err := s.client.Storage().GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if config == nil || config.TenantID == "" {
		return nil, fmt.Errorf("%w: no tenant configured", xero.ErrNoOrganization)
	}

	return s.client.FetchOrders(ctx, accessToken, config.TenantID, xero.SortByDateDesc)
}

// NotifyCompletion emails the front desk that an order has been picked. The
// returned error is always a notification failure; completing the order
// itself cannot fail here.
func (s *OrdersService) NotifyCompletion(ctx context.Context, req *sdk.CompleteOrderRequest) error {
	if !s.mailer.Enabled() {
		return fmt.Errorf("%w: no API key configured", notify.ErrNotificationFailed)
	}

	msg := composeCompletionEmail(s.cfg, req, time.Now())
	return s.mailer.Send(ctx, msg)
}
