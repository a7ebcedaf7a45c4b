package outreach_morningsummary

import (
	"time"

	"github.com/sales793/torenius-timber/internal/xero"
)

// Digest partitions invoices by due date relative to one fixed "today".
// The three buckets are mutually exclusive; invoices due more than seven days
// out belong to none of them. Unpaid count and total are accumulated over the
// entire input regardless of bucket membership.
type Digest struct {
	Overdue  []xero.Invoice
	DueToday []xero.Invoice
	ThisWeek []xero.Invoice

	UnpaidCount int
	UnpaidTotal float64
}

// BuildDigest classifies invoices against the reporting day. Pure function:
// no side effects, no network.
func BuildDigest(today time.Time, invoices []xero.Invoice) Digest {
	// ISO date strings compare correctly as plain strings.
	todayStr := today.Format("2006-01-02")
	weekStr := today.AddDate(0, 0, 7).Format("2006-01-02")

	var digest Digest
	for _, inv := range invoices {
		if inv.AmountDue != 0 {
			digest.UnpaidCount++
			digest.UnpaidTotal += inv.AmountDue
		}

		due := xero.DateOnly(inv.DueDateString)
		switch {
		case due < todayStr:
			digest.Overdue = append(digest.Overdue, inv)
		case due == todayStr:
			digest.DueToday = append(digest.DueToday, inv)
		case due <= weekStr:
			digest.ThisWeek = append(digest.ThisWeek, inv)
		}
	}

	return digest
}
