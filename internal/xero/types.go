package xero

import (
	"context"
	"time"
)

/* ---- STORED TYPES ---- */

// TokenSet is the OAuth2 access/refresh token pair for the connected
// organization. It is replaced wholesale on every refresh; refresh tokens
// rotate, so a partial update would strand the connection.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"` // instant after which the access token must not be presented
	TokenType    string    `json:"token_type"`
	SavedAt      time.Time `json:"saved_at"`
}

// OrgConfig identifies the single remote organization all invoice queries
// target. Written once during authorization, read-only afterwards.
type OrgConfig struct {
	TenantID    string    `json:"tenant_id"`
	TenantName  string    `json:"tenant_name"`
	TenantType  string    `json:"tenant_type"`
	ConnectedAt time.Time `json:"connected_at"`
}

// CredentialStorage is implemented by the storage layer (see
// internal/stores/credential). Absent values are returned as (nil, nil).
type CredentialStorage interface {
	GetTokens(ctx context.Context) (*TokenSet, error)
	SaveTokens(ctx context.Context, tokens *TokenSet) error
	GetConfig(ctx context.Context) (*OrgConfig, error)
	SaveConfig(ctx context.Context, config *OrgConfig) error
	Clear(ctx context.Context) error
}

/* ---- REMOTE TYPES ---- */

// Connection is one entry from the Xero /connections endpoint.
type Connection struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
	TenantType string `json:"tenantType"`
}

// Invoice mirrors the fields we read from the Xero Invoices payload.
type Invoice struct {
	InvoiceID     string     `json:"InvoiceID"`
	InvoiceNumber string     `json:"InvoiceNumber"`
	Contact       Contact    `json:"Contact"`
	DateString    string     `json:"DateString"`
	DueDateString string     `json:"DueDateString"`
	Reference     string     `json:"Reference"`
	Total         float64    `json:"Total"`
	AmountDue     float64    `json:"AmountDue"`
	LineItems     []LineItem `json:"LineItems"`
}

type Contact struct {
	Name         string  `json:"Name"`
	EmailAddress string  `json:"EmailAddress"`
	Phones       []Phone `json:"Phones"`
}

type Phone struct {
	PhoneType   string `json:"PhoneType"`
	PhoneNumber string `json:"PhoneNumber"`
}

type LineItem struct {
	ItemCode    string  `json:"ItemCode"`
	Description string  `json:"Description"`
	UnitAmount  float64 `json:"UnitAmount"`
	LineAmount  float64 `json:"LineAmount"`
}

/* ---- PIPELINE OUTPUT ---- */

// Payment status values for an Order.
const (
	PaymentStatusPaid   = "PAID"
	PaymentStatusUnpaid = "UNPAID"
)

// OrderItem is one classified invoice line item.
type OrderItem struct {
	Spec      string  `json:"spec"`
	Quantity  string  `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// Order is the normalized, mill-ready projection of one sales invoice.
// Orders are value objects recomputed on every request, never persisted.
type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	Customer      string      `json:"customer"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone"`
	Date          string      `json:"date"`
	DueDate       string      `json:"dueDate"`
	Notes         string      `json:"notes"`
	Status        string      `json:"status"`
	TotalPrice    float64     `json:"totalPrice"`
	AmountDue     float64     `json:"amountDue"`
	PaymentStatus string      `json:"paymentStatus"`
	GreenItems    []OrderItem `json:"greenItems"`
	DryItems      []OrderItem `json:"dryItems"`
	AllItems      []OrderItem `json:"allItems"`
}
