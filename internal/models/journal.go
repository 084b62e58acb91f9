package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of ledger_entries.
type LedgerEntry struct {
	EntryID        string       `db:"entry_id"`
	JournalCode    string       `db:"journal_code"`
	EntryNumber    int64        `db:"entry_number"`
	EntryDate      time.Time    `db:"entry_date"`
	PieceDate      time.Time    `db:"piece_date"`
	SourceType     string       `db:"source_type"`
	SourceID       string       `db:"source_id"`
	SourceNumber   string       `db:"source_number"`
	Label          string       `db:"label"`
	FiscalPeriodID string       `db:"fiscal_period_id"`
	FiscalYear     int          `db:"fiscal_year"`
	Validated      bool         `db:"validated"`
	ValidatedAt    sql.NullTime `db:"validated_at"`
	AuditFields
}

// LedgerLine is a row of ledger_lines. Optional columns are nullable.
type LedgerLine struct {
	LineID             string              `db:"line_id"`
	EntryID            string              `db:"entry_id"`
	LineOrder          int                 `db:"line_order"`
	AccountCode        string              `db:"account_code"`
	Debit              decimal.Decimal     `db:"debit"`
	Credit             decimal.Decimal     `db:"credit"`
	Label              string              `db:"label"`
	SubsidiaryAccount  sql.NullString      `db:"subsidiary_account"`
	SubsidiaryLabel    sql.NullString      `db:"subsidiary_label"`
	DueDate            sql.NullTime        `db:"due_date"`
	ReconciliationCode sql.NullString      `db:"reconciliation_code"`
	ReconciledAt       sql.NullTime        `db:"reconciled_at"`
	ForeignAmount      decimal.NullDecimal `db:"foreign_amount"`
	ForeignCurrency    sql.NullString      `db:"foreign_currency"`
}
