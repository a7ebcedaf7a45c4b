package outreach_morningsummary

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sales793/torenius-timber/internal/notify"
	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/utils"
)

/* ---- GLOBALS ---- */

var (
	client *xero.Client
	mailer *notify.Client
)

/* ---- INIT ---- */

// Init wires the shared Xero client and email client into this outreach.
func Init(_ *utils.Config, xeroClient *xero.Client, notifyClient *notify.Client) error {
	if xeroClient == nil {
		return fmt.Errorf("xero client must be provided")
	}
	if notifyClient == nil {
		return fmt.Errorf("notify client must be provided")
	}

	client = xeroClient
	mailer = notifyClient
	return nil
}

/* ---- METHODS ---- */

// SendMorningSummary fetches the last 30 days of invoices, classifies them
// against today's date, and emails the daily summary. A missing organization
// config or missing email API key is a logged skip, not an error; a delivery
// failure surfaces as notify.ErrNotificationFailed so callers can downgrade
// it to a warning.
func SendMorningSummary(cfg *utils.Config) error {
	if client == nil || mailer == nil {
		return fmt.Errorf("morning summary not initialized")
	}

	ctx := context.Background()
	log.Println("[SUMMARY]: Running morning summary...")

	accessToken, err := client.EnsureValidToken(ctx)
	if err != nil {
		return err
	}

	orgConfig, err := client.Storage().GetConfig(ctx)
	if err != nil {
		return err
	}
	if orgConfig == nil || orgConfig.TenantID == "" {
		log.Println("[SUMMARY]: No tenant configured - skipping")
		return nil
	}

	invoices, err := client.FetchInvoices(ctx, accessToken, orgConfig.TenantID, xero.SortByDueDateAsc)
	if err != nil {
		return err
	}

	today := time.Now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	digest := BuildDigest(today, invoices)

	if !mailer.Enabled() {
		log.Println("[SUMMARY]: No Resend API key - skipping email")
		return nil
	}

	msg := composeSummaryEmail(cfg, digest, today)
	if err := mailer.Send(ctx, msg); err != nil {
		return err
	}

	log.Printf("[SUMMARY]: Morning summary sent (%d invoices)", len(invoices))
	return nil
}

// composeSummaryEmail formats the digest as a plain-text email.
func composeSummaryEmail(cfg *utils.Config, digest Digest, today time.Time) *notify.Message {
	var b strings.Builder

	b.WriteString("Good morning!\n\n")
	b.WriteString("Here's your day ahead at Torenius Timber:\n\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("📋 TODAY'S ORDERS\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	writeSection(&b, "🔴 OVERDUE", digest.Overdue, overdueLimit)
	writeSection(&b, "🟡 DUE TODAY", digest.DueToday, dueTodayLimit)
	writeSection(&b, "📦 THIS WEEK", digest.ThisWeek, thisWeekLimit)

	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("💰 OUTSTANDING PAYMENTS\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "%d unpaid invoices\n", digest.UnpaidCount)
	fmt.Fprintf(&b, "Total outstanding: $%.2f\n\n", digest.UnpaidTotal)
	b.WriteString("Have a great day!\nTorenius Timber Mill System\n")

	return &notify.Message{
		From:          cfg.GetWithDefault("SUMMARY_EMAIL_FROM", defaultFrom),
		To:            []string{cfg.GetWithDefault("SUMMARY_EMAIL_TO", defaultTo)},
		Subject:       fmt.Sprintf("🪵 Daily Summary - %s", today.Format("Monday 2 Jan")),
		Text:          b.String(),
		IdempotencyID: uuid.NewString(),
	}
}

func writeSection(b *strings.Builder, title string, invoices []xero.Invoice, limit int) {
	if len(invoices) == 0 {
		return
	}

	fmt.Fprintf(b, "%s (%d)\n", title, len(invoices))
	for i, inv := range invoices {
		if i == limit {
			break
		}
		fmt.Fprintf(b, "  • %s - %s\n    %s\n", inv.InvoiceNumber, inv.Contact.Name, itemCodes(inv.LineItems))
	}
	if len(invoices) > limit {
		fmt.Fprintf(b, "\n  ...and %d more\n", len(invoices)-limit)
	}
	b.WriteString("\n")
}

func itemCodes(items []xero.LineItem) string {
	if len(items) == 0 {
		return "No items"
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.ItemCode)
	}
	return strings.Join(codes, ", ")
}
