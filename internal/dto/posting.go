package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the date format accepted in request bodies and query strings.
const DateLayout = "2006-01-02"

// InvoiceLineRequest is one item of an invoice, credit note or quote.
type InvoiceLineRequest struct {
	LineID      string          `json:"lineID" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// PostInvoiceRequest carries an invoice or credit note to post.
type PostInvoiceRequest struct {
	InvoiceID        string               `json:"invoiceID" binding:"required"`
	Number           string               `json:"number" binding:"required,max=20"`
	Kind             string               `json:"kind" binding:"required,oneof=STANDARD CREDIT_NOTE"`
	IssueDate        string               `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate          *string              `json:"dueDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	CounterpartyID   int64                `json:"counterpartyID" binding:"required,gt=0"`
	CounterpartyName string               `json:"counterpartyName" binding:"required"`
	Currency         string               `json:"currency" binding:"required,len=3"`
	Status           string               `json:"status"`
	Lines            []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	DeclaredTotal    *decimal.Decimal     `json:"declaredTotal,omitempty"`
	Version          int                  `json:"version"`
}

// ToDomain converts the request into a domain Invoice.
func (r PostInvoiceRequest) ToDomain() (domain.Invoice, error) {
	issue, err := time.Parse(DateLayout, r.IssueDate)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("invalid issueDate: %w", err)
	}
	inv := domain.Invoice{
		InvoiceID:        r.InvoiceID,
		Number:           r.Number,
		Kind:             domain.InvoiceKind(r.Kind),
		IssueDate:        issue,
		CounterpartyID:   r.CounterpartyID,
		CounterpartyName: r.CounterpartyName,
		Currency:         r.Currency,
		Status:           r.Status,
		Lines:            toDomainLines(r.Lines),
		DeclaredTotal:    r.DeclaredTotal,
		Version:          r.Version,
	}
	if r.DueDate != nil {
		due, err := time.Parse(DateLayout, *r.DueDate)
		if err != nil {
			return domain.Invoice{}, fmt.Errorf("invalid dueDate: %w", err)
		}
		inv.DueDate = &due
	}
	return inv, nil
}

func toDomainLines(lines []InvoiceLineRequest) []domain.InvoiceLine {
	out := make([]domain.InvoiceLine, len(lines))
	for i, l := range lines {
		out[i] = domain.InvoiceLine{
			LineID:      l.LineID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		}
	}
	return out
}

// CancelPostingRequest carries the mandatory justification of a cancellation.
type CancelPostingRequest struct {
	Justification string `json:"justification" binding:"required"`
}

// LedgerLineResponse is one line of a ledger entry. Amounts use two decimals.
type LedgerLineResponse struct {
	LineOrder         int     `json:"lineOrder"`
	AccountCode       string  `json:"accountCode"`
	SubsidiaryAccount string  `json:"subsidiaryAccount,omitempty"`
	SubsidiaryLabel   string  `json:"subsidiaryLabel,omitempty"`
	Debit             string  `json:"debit"`
	Credit            string  `json:"credit"`
	Label             string  `json:"label"`
	DueDate           *string `json:"dueDate,omitempty"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID        string               `json:"entryID"`
	Number         string               `json:"number"`
	JournalCode    string               `json:"journalCode"`
	EntryNumber    int64                `json:"entryNumber"`
	EntryDate      string               `json:"entryDate"`
	Source         domain.DocumentRef   `json:"source"`
	Label          string               `json:"label"`
	FiscalPeriodID string               `json:"fiscalPeriodID"`
	Validated      bool                 `json:"validated"`
	ValidatedAt    *time.Time           `json:"validatedAt,omitempty"`
	TotalDebit     string               `json:"totalDebit"`
	TotalCredit    string               `json:"totalCredit"`
	Lines          []LedgerLineResponse `json:"lines"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	debit, credit := e.Totals()
	lines := make([]LedgerLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LedgerLineResponse{
			LineOrder:         l.LineOrder,
			AccountCode:       l.AccountCode,
			SubsidiaryAccount: l.SubsidiaryAccount,
			SubsidiaryLabel:   l.SubsidiaryLabel,
			Debit:             domain.FormatMoney(l.Debit),
			Credit:            domain.FormatMoney(l.Credit),
			Label:             l.Label,
		}
		if l.DueDate != nil {
			d := l.DueDate.Format(DateLayout)
			lines[i].DueDate = &d
		}
	}
	return LedgerEntryResponse{
		EntryID:        e.EntryID,
		Number:         e.DocumentRef().Number,
		JournalCode:    e.JournalCode,
		EntryNumber:    e.EntryNumber,
		EntryDate:      e.EntryDate.Format(DateLayout),
		Source:         e.Source,
		Label:          e.Label,
		FiscalPeriodID: e.FiscalPeriodID,
		Validated:      e.Validated,
		ValidatedAt:    e.ValidatedAt,
		TotalDebit:     domain.FormatMoney(debit),
		TotalCredit:    domain.FormatMoney(credit),
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}
