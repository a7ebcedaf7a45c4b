package orders_module

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sales793/torenius-timber/internal/notify"
	"github.com/sales793/torenius-timber/pkg/sdk"
	"github.com/sales793/torenius-timber/pkg/utils"
)

const (
	defaultFrom = "Torenius Timber <noreply@toreniustimber.com.au>"
	defaultTo   = "sales@toreniustimber.com.au"
)

// completionEmailData feeds the completion email templates.
type completionEmailData struct {
	OrderNumber string
	Customer    string
	Worker      string
	Mill        string
	CompletedAt string
	Items       []sdk.CompletedItem
}

// composeCompletionEmail builds the text and HTML notification for one
// completed order.
func composeCompletionEmail(cfg *utils.Config, req *sdk.CompleteOrderRequest, completedAt time.Time) *notify.Message {
	data := completionEmailData{
		OrderNumber: req.OrderNumber,
		Customer:    req.Customer,
		Worker:      req.Worker,
		Mill:        req.Mill,
		CompletedAt: completedAt.Format("02/01/2006, 3:04:05 pm"),
		Items:       req.Items,
	}

	return &notify.Message{
		From:          cfg.GetWithDefault("SUMMARY_EMAIL_FROM", defaultFrom),
		To:            []string{cfg.GetWithDefault("SUMMARY_EMAIL_TO", defaultTo)},
		Subject:       fmt.Sprintf("✅ Order %s Complete - %s", req.OrderNumber, req.Customer),
		Text:          completionText(data),
		HTML:          completionHTML(data),
		IdempotencyID: uuid.NewString(),
	}
}

func completionText(data completionEmailData) string {
	var b strings.Builder

	b.WriteString("Order Completed\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", data.Customer)
	fmt.Fprintf(&b, "Order Number: %s\n", data.OrderNumber)
	fmt.Fprintf(&b, "Mill: %s\n", data.Mill)
	fmt.Fprintf(&b, "Completed by: %s\n", data.Worker)
	fmt.Fprintf(&b, "Completed at: %s\n\n", data.CompletedAt)

	b.WriteString("Items:\n")
	for _, item := range data.Items {
		fmt.Fprintf(&b, "  • %s - %s\n", item.Spec, item.Quantity)
	}

	b.WriteString("\nThis order is now ready for pickup at the front desk.\n\n---\nTorenius Timber Mill System\nForcett, Tasmania\n")
	return b.String()
}

func completionHTML(data completionEmailData) string {
	var buf bytes.Buffer
	if err := completionTemplate.Execute(&buf, data); err != nil {
		// Fall back to text-only delivery rather than dropping the email
		log.Printf("[ORDERS]: Failed to render completion email template: %v", err)
		return ""
	}
	return buf.String()
}

var completionTemplate = template.Must(template.New("completion").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2c5f2d; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f8f9fa; padding: 20px; }
        .info-grid { background: white; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
        .info-row { display: flex; padding: 8px 0; border-bottom: 1px solid #e9ecef; }
        .info-row:last-child { border-bottom: none; }
        .info-label { font-weight: 600; width: 140px; color: #666; }
        .info-value { flex: 1; }
        .items { background: white; padding: 15px; border-radius: 8px; }
        .items h3 { margin-top: 0; color: #2c5f2d; }
        .item { padding: 8px 0; border-bottom: 1px solid #e9ecef; }
        .item:last-child { border-bottom: none; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>✅ Order Complete</h1>
        </div>
        <div class="content">
            <div class="info-grid">
                <div class="info-row">
                    <div class="info-label">Customer:</div>
                    <div class="info-value"><strong>{{.Customer}}</strong></div>
                </div>
                <div class="info-row">
                    <div class="info-label">Order Number:</div>
                    <div class="info-value"><strong>{{.OrderNumber}}</strong></div>
                </div>
                <div class="info-row">
                    <div class="info-label">Mill:</div>
                    <div class="info-value">{{.Mill}}</div>
                </div>
                <div class="info-row">
                    <div class="info-label">Completed by:</div>
                    <div class="info-value">{{.Worker}}</div>
                </div>
                <div class="info-row">
                    <div class="info-label">Completed at:</div>
                    <div class="info-value">{{.CompletedAt}}</div>
                </div>
            </div>

            <div class="items">
                <h3>Items Picked</h3>
                {{range .Items}}
                <div class="item">
                    <strong>{{.Spec}}</strong><br>
                    <span style="color: #666;">{{.Quantity}}</span>
                </div>
                {{end}}
            </div>
        </div>
        <div class="footer">
            This order is now ready for pickup at the front desk.<br>
            <strong>Torenius Timber Mill</strong> · Forcett, Tasmania
        </div>
    </div>
</body>
</html>
`))
