package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyItems(t *testing.T) {
	items := []LineItem{
		{ItemCode: "GREEN-A", Description: "10 lengths", UnitAmount: 5, LineAmount: 50},
		{ItemCode: "dry-b", Description: "4 packs", UnitAmount: 20, LineAmount: 80},
		{ItemCode: "Kiln-DRY-90x45", Description: "2 packs", UnitAmount: 30, LineAmount: 60},
		{ItemCode: "FREIGHT", Description: "delivery", UnitAmount: 100, LineAmount: 100},
	}

	green, dry := classifyItems(items)

	require.Len(t, green, 1)
	assert.Equal(t, "GREEN-A", green[0].Spec)
	assert.Equal(t, "10 lengths", green[0].Quantity)

	require.Len(t, dry, 2)
	assert.Equal(t, "dry-b", dry[0].Spec)
	assert.Equal(t, "Kiln-DRY-90x45", dry[1].Spec)
}

func TestClassifyItems_GreenWinsOverDry(t *testing.T) {
	// An item code containing both substrings lands only in green
	green, dry := classifyItems([]LineItem{{ItemCode: "green-to-dry"}})

	assert.Len(t, green, 1)
	assert.Empty(t, dry)
}

func TestBuildOrder(t *testing.T) {
	inv := Invoice{
		InvoiceID:     "inv-1",
		InvoiceNumber: "INV-0042",
		Contact: Contact{
			Name:         "Acme Frames",
			EmailAddress: "orders@acme.example",
			Phones: []Phone{
				{PhoneType: "MOBILE", PhoneNumber: "0400 000 001"},
				{PhoneType: "DEFAULT", PhoneNumber: "03 5555 0001"},
			},
		},
		DateString:    "2026-08-20T00:00:00",
		DueDateString: "2026-09-03T00:00:00",
		Reference:     "gate order",
		Total:         130,
		AmountDue:     130,
		LineItems: []LineItem{
			{ItemCode: "GREEN-A", LineAmount: 50},
			{ItemCode: "DRY-B", LineAmount: 80},
		},
	}

	order := buildOrder(&inv)

	assert.Equal(t, "inv-1", order.ID)
	assert.Equal(t, "INV-0042", order.OrderNumber)
	assert.Equal(t, "Acme Frames", order.Customer)
	assert.Equal(t, "03 5555 0001", order.CustomerPhone)
	assert.Equal(t, "2026-08-20", order.Date)
	assert.Equal(t, "2026-09-03", order.DueDate)
	assert.Equal(t, "gate order", order.Notes)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)

	require.Len(t, order.GreenItems, 1)
	require.Len(t, order.DryItems, 1)
	require.Len(t, order.AllItems, 2)
	assert.Equal(t, "GREEN-A", order.AllItems[0].Spec)
	assert.Equal(t, "DRY-B", order.AllItems[1].Spec)
}

func TestBuildOrder_Defaults(t *testing.T) {
	order := buildOrder(&Invoice{AmountDue: 0})

	assert.Equal(t, "Unknown", order.Customer)
	assert.Equal(t, "", order.CustomerPhone)
	assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	assert.Empty(t, order.AllItems)
}

func TestBuildOrder_PaidOnlyWhenNothingDue(t *testing.T) {
	assert.Equal(t, PaymentStatusUnpaid, buildOrder(&Invoice{AmountDue: 0.01}).PaymentStatus)
	assert.Equal(t, PaymentStatusPaid, buildOrder(&Invoice{AmountDue: 0}).PaymentStatus)
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2026-08-20", DateOnly("2026-08-20T00:00:00"))
	assert.Equal(t, "2026-08-20", DateOnly("2026-08-20"))
	assert.Equal(t, "", DateOnly(""))
}

func TestFetchInvoices_Query(t *testing.T) {
	var gotPath, gotWhere, gotOrder, gotAuth, gotTenant string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotWhere = r.URL.Query().Get("where")
		gotOrder = r.URL.Query().Get("order")
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("Xero-Tenant-Id")
		json.NewEncoder(w).Encode(map[string]any{"Invoices": []Invoice{{InvoiceID: "inv-1"}}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL, &memoryStorage{})

	invoices, err := client.FetchInvoices(context.Background(), "A1", "tenant-1", SortByDateDesc)
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	assert.Equal(t, "/api.xro/2.0/Invoices", gotPath)
	assert.Equal(t, "Bearer A1", gotAuth)
	assert.Equal(t, "tenant-1", gotTenant)
	assert.Equal(t, "Date DESC", gotOrder)

	cutoff := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	expected := fmt.Sprintf(`Type=="ACCREC"&&Status=="AUTHORISED"&&Date>=DateTime(%s)`,
		strings.ReplaceAll(cutoff, "-", ","))
	assert.Equal(t, expected, gotWhere)
}

func TestFetchInvoices_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL, &memoryStorage{})

	invoices, err := client.FetchInvoices(context.Background(), "A1", "tenant-1", SortByDateDesc)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestFetchInvoices_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL, &memoryStorage{})

	_, err := client.FetchInvoices(context.Background(), "A1", "tenant-1", SortByDateDesc)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchInvoices_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL, &memoryStorage{})

	_, err := client.FetchInvoices(context.Background(), "A1", "tenant-1", SortByDateDesc)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"Invoices": []Invoice{
			{
				InvoiceID:     "inv-1",
				InvoiceNumber: "INV-0001",
				Contact:       Contact{Name: "Acme Frames"},
				AmountDue:     100,
				LineItems:     []LineItem{{ItemCode: "GREEN-A"}},
			},
			{InvoiceID: "inv-2", AmountDue: 0},
		}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL, &memoryStorage{})

	orders, err := client.FetchOrders(context.Background(), "A1", "tenant-1", SortByDateDesc)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "INV-0001", orders[0].OrderNumber)
	assert.Equal(t, PaymentStatusUnpaid, orders[0].PaymentStatus)
	assert.Len(t, orders[0].GreenItems, 1)

	assert.Equal(t, "Unknown", orders[1].Customer)
	assert.Equal(t, PaymentStatusPaid, orders[1].PaymentStatus)
}
