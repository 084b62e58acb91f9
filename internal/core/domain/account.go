package domain

import "time"

// ChartAccount is an account of the national chart of accounts as seen by the
// ledger core. The chart itself is maintained elsewhere; this is a read model.
type ChartAccount struct {
	Code     string `json:"code"`  // e.g. "411000"
	Label    string `json:"label"` // e.g. "Clients"
	IsActive bool   `json:"isActive"`
}

// JournalKind classifies journals.
type JournalKind string

const (
	JournalSales    JournalKind = "SALES"
	JournalPurchase JournalKind = "PURCHASE"
	JournalBank     JournalKind = "BANK"
	JournalMisc     JournalKind = "MISC"
)

// LedgerJournal is a journal of the registry (e.g. "VT" for sales).
type LedgerJournal struct {
	Code     string      `json:"code"`
	Label    string      `json:"label"`
	Kind     JournalKind `json:"kind"`
	IsActive bool        `json:"isActive"`
}

// FiscalPeriod is a bounded date range during which postings may be made.
type FiscalPeriod struct {
	PeriodID   string    `json:"periodID"`
	FiscalYear int       `json:"fiscalYear"`
	StartDate  time.Time `json:"startDate"` // inclusive, calendar date
	EndDate    time.Time `json:"endDate"`   // inclusive, calendar date
	Closed     bool      `json:"closed"`
}

// Covers reports whether the calendar date of t lies within the period.
func (p FiscalPeriod) Covers(t time.Time) bool {
	d := CalendarDate(t)
	return !d.Before(CalendarDate(p.StartDate)) && !d.After(CalendarDate(p.EndDate))
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
