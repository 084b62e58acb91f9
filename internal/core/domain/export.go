package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportRequest selects the ledger entries of a regulatory export.
type ExportRequest struct {
	PeriodStart time.Time `json:"periodStart" validate:"required"`
	PeriodEnd   time.Time `json:"periodEnd" validate:"required,gtefield=PeriodStart"`
	FiscalYear  *int      `json:"fiscalYear,omitempty"`
	TaxID       string    `json:"taxID" validate:"required,alphanum,max=20"`
}

// ExportLine is one row of the regulatory file, derived from an entry and
// one of its lines at export time. It is never persisted.
type ExportLine struct {
	JournalCode    string
	JournalLabel   string
	EntryNumber    string
	EntryDate      *time.Time
	AccountNumber  string
	AccountLabel   string
	AuxAccount     string
	AuxLabel       string
	PieceRef       string
	PieceDate      *time.Time
	EntryLabel     string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	ReconcileCode  string
	ReconcileDate  *time.Time
	ValidationDate *time.Time
	ForeignAmount  *decimal.Decimal
	CurrencyCode   string
}

// ExportViolation is one pre-emission validation failure.
type ExportViolation struct {
	Row     int    `json:"row"` // 1-based data row, 0 for file-level checks
	Field   string `json:"field,omitempty"`
	Entry   string `json:"entry,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ExportFile is a generated regulatory file ready to be written or served.
type ExportFile struct {
	FileName    string          `json:"fileName"`
	Content     []byte          `json:"-"` // encoded bytes, CRLF line endings
	RowCount    int             `json:"rowCount"`
	EntryCount  int             `json:"entryCount"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Warnings    []string        `json:"warnings,omitempty"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
