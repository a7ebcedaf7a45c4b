package outreach_morningsummary

/* ---- CONSTANTS ---- */

// Per-section caps for the summary email; overflow is collapsed into an
// "...and N more" line.
const (
	overdueLimit  = 5
	dueTodayLimit = 5
	thisWeekLimit = 3
)

const (
	defaultFrom = "Torenius Timber <noreply@toreniustimber.com.au>"
	defaultTo   = "sales@toreniustimber.com.au"
)
