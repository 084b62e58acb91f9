package models

import "time"

// ChartAccount is a row of chart_accounts.
type ChartAccount struct {
	Code     string `db:"code"`
	Label    string `db:"label"`
	IsActive bool   `db:"is_active"`
}

// Journal is a row of the journal registry.
type Journal struct {
	Code     string `db:"code"`
	Label    string `db:"label"`
	Kind     string `db:"kind"`
	IsActive bool   `db:"is_active"`
}

// FiscalPeriod is a row of fiscal_periods. Dates are calendar dates.
type FiscalPeriod struct {
	PeriodID   string    `db:"period_id"`
	FiscalYear int       `db:"fiscal_year"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Closed     bool      `db:"closed"`
}
