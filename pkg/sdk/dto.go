package sdk

import "time"

// AuthorizeResponse is returned by the authorization callback.
type AuthorizeResponse struct {
	Organization string `json:"organization"`
}

// StatusResponse describes the current connection to the accounting platform.
type StatusResponse struct {
	Connected    bool      `json:"connected"`
	Organization string    `json:"organization,omitempty"`
	ConnectedAt  time.Time `json:"connectedAt,omitzero"`
	ExpiresAt    time.Time `json:"expiresAt,omitzero"`
	NeedsRefresh bool      `json:"needsRefresh,omitempty"`
}

// CompletedItem is one picked line item reported by the mill floor.
type CompletedItem struct {
	Spec     string `json:"spec"`
	Quantity string `json:"quantity"`
}

// CompleteOrderRequest is the webhook body sent when a worker marks an order
// complete. OrderNumber and Customer are required.
type CompleteOrderRequest struct {
	OrderNumber string          `json:"orderNumber"`
	Customer    string          `json:"customer"`
	Worker      string          `json:"worker"`
	Mill        string          `json:"mill"`
	Items       []CompletedItem `json:"items"`
}

// OrderItem mirrors one classified line item of an order.
type OrderItem struct {
	Spec      string  `json:"spec"`
	Quantity  string  `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// Order mirrors the backend's normalized order projection for SDK consumers.
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
