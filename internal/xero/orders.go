package xero

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SortOrder selects how the invoice endpoint orders its results. Both are
// valid orderings of the same filtered set.
type SortOrder string

const (
	// SortByDateDesc puts the newest invoices first, for interactive display.
	SortByDateDesc SortOrder = "Date DESC"
	// SortByDueDateAsc puts the most urgent invoices first, for the daily summary.
	SortByDueDateAsc SortOrder = "DueDate ASC"
)

// invoiceWindowDays is the rolling lookback window for invoice queries,
// relative to the instant of the call.
const invoiceWindowDays = 30

// FetchInvoices retrieves authorised accounts-receivable invoices issued
// within the last 30 days. An absent or empty Invoices field in the response
// is an empty result, not an error.
func (c *Client) FetchInvoices(ctx context.Context, accessToken, tenantID string, sort SortOrder) ([]Invoice, error) {
	cutoff := c.now().UTC().AddDate(0, 0, -invoiceWindowDays).Format("2006-01-02")

	q := url.Values{}
	q.Set("where", fmt.Sprintf(`Type=="ACCREC"&&Status=="AUTHORISED"&&Date>=DateTime(%s)`,
		strings.ReplaceAll(cutoff, "-", ",")))
	q.Set("order", string(sort))

	var payload struct {
		Invoices []Invoice `json:"Invoices"`
	}
	if err := c.get(ctx, c.apiURL+"/api.xro/2.0/Invoices?"+q.Encode(), accessToken, tenantID, &payload); err != nil {
		return nil, err
	}
	return payload.Invoices, nil
}

// FetchOrders retrieves outstanding invoices and reshapes each into a
// mill-ready order with its line items classified by product category.
func (c *Client) FetchOrders(ctx context.Context, accessToken, tenantID string, sort SortOrder) ([]Order, error) {
	invoices, err := c.FetchInvoices(ctx, accessToken, tenantID, sort)
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(invoices))
	for i := range invoices {
		orders = append(orders, buildOrder(&invoices[i]))
	}
	return orders, nil
}

// buildOrder normalizes one invoice into an order. Missing optional fields
// default to empty strings rather than propagating absence.
func buildOrder(inv *Invoice) Order {
	green, dry := classifyItems(inv.LineItems)

	// allItems is exactly green followed by dry; items matching neither
	// category are excluded from every bucket but still count toward the
	// invoice totals.
	all := make([]OrderItem, 0, len(green)+len(dry))
	all = append(all, green...)
	all = append(all, dry...)

	customer := inv.Contact.Name
	if customer == "" {
		customer = "Unknown"
	}

	paymentStatus := PaymentStatusUnpaid
	if inv.AmountDue == 0 {
		paymentStatus = PaymentStatusPaid
	}

	return Order{
		ID:            inv.InvoiceID,
		OrderNumber:   inv.InvoiceNumber,
		Customer:      customer,
		CustomerEmail: inv.Contact.EmailAddress,
		CustomerPhone: defaultPhone(inv.Contact.Phones),
		Date:          DateOnly(inv.DateString),
		DueDate:       DateOnly(inv.DueDateString),
		Notes:         inv.Reference,
		Status:        "pending",
		TotalPrice:    inv.Total,
		AmountDue:     inv.AmountDue,
		PaymentStatus: paymentStatus,
		GreenItems:    green,
		DryItems:      dry,
		AllItems:      all,
	}
}

// classifyItems partitions line items by case-insensitive substring match on
// the item code: "green" is tested before "dry", so an item lands in at most
// one bucket. Items matching neither are dropped from both.
func classifyItems(items []LineItem) (green, dry []OrderItem) {
	green = []OrderItem{}
	dry = []OrderItem{}

	for _, item := range items {
		entry := OrderItem{
			Spec:      item.ItemCode,
			Quantity:  item.Description,
			UnitPrice: item.UnitAmount,
			LineTotal: item.LineAmount,
		}

		code := strings.ToLower(item.ItemCode)
		switch {
		case strings.Contains(code, "green"):
			green = append(green, entry)
		case strings.Contains(code, "dry"):
			dry = append(dry, entry)
		}
	}
	return green, dry
}

// DateOnly truncates a remote timestamp to its calendar-date portion.
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

func defaultPhone(phones []Phone) string {
	for _, p := range phones {
		if p.PhoneType == "DEFAULT" {
			return p.PhoneNumber
		}
	}
	return ""
}
