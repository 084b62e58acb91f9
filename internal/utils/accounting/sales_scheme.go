package accounting

import (
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrUnmappedRate = errors.New("no revenue and tax accounts mapped for tax rate")
	ErrZeroTotal    = errors.New("invoice total must be positive")
)

// RateAccounts maps one tax rate to its revenue and tax-collected accounts.
type RateAccounts struct {
	Rate           decimal.Decimal
	RevenueAccount string
	TaxAccount     string
}

// SalesScheme describes how a customer invoice is posted.
type SalesScheme struct {
	ReceivableAccount    string
	ExemptRevenueAccount string
	rates                map[string]RateAccounts
}

// DefaultRateAccounts is the standard VAT mapping of the national chart.
func DefaultRateAccounts() []RateAccounts {
	return []RateAccounts{
		{Rate: decimal.NewFromInt(20), RevenueAccount: "701000", TaxAccount: "445711"},
		{Rate: decimal.NewFromInt(10), RevenueAccount: "701100", TaxAccount: "445712"},
		{Rate: decimal.RequireFromString("5.5"), RevenueAccount: "701200", TaxAccount: "445713"},
		{Rate: decimal.RequireFromString("2.1"), RevenueAccount: "701300", TaxAccount: "445714"},
	}
}

// NewSalesScheme builds a scheme from a receivable account, an exempt revenue
// account and the per-rate mapping.
func NewSalesScheme(receivable, exemptRevenue string, rates []RateAccounts) SalesScheme {
	s := SalesScheme{ReceivableAccount: receivable, ExemptRevenueAccount: exemptRevenue, rates: make(map[string]RateAccounts)}
	for _, r := range rates {
		s.rates[r.Rate.String()] = r
	}
	return s
}

// WithRate returns a copy of s with one rate mapping added or replaced.
func (s SalesScheme) WithRate(r RateAccounts) SalesScheme {
	rates := make(map[string]RateAccounts, len(s.rates)+1)
	for k, v := range s.rates {
		rates[k] = v
	}
	rates[r.Rate.String()] = r
	s.rates = rates
	return s
}

// SubsidiaryCode derives the customer subsidiary account from the
// counterparty id: "C" followed by the id zero-padded to 8 digits.
func SubsidiaryCode(counterpartyID int64) string {
	return fmt.Sprintf("C%08d", counterpartyID)
}

// AccountCodes lists every account the scheme may post to for inv.
func (s SalesScheme) AccountCodes(inv domain.Invoice) ([]string, error) {
	codes := []string{s.ReceivableAccount}
	for _, b := range domain.TaxBuckets(inv.Lines) {
		revenue, tax, err := s.accountsFor(b.Rate)
		if err != nil {
			return nil, err
		}
		codes = append(codes, revenue)
		if tax != "" {
			codes = append(codes, tax)
		}
	}
	return codes, nil
}

func (s SalesScheme) accountsFor(rate decimal.Decimal) (revenue, tax string, err error) {
	if rate.IsZero() {
		return s.ExemptRevenueAccount, "", nil
	}
	r, ok := s.rates[rate.String()]
	if !ok {
		return "", "", fmt.Errorf("%w: %s%%", ErrUnmappedRate, rate)
	}
	return r.RevenueAccount, r.TaxAccount, nil
}

// Lines builds the ledger lines of an invoice: one receivable debit for the
// tax-inclusive total, then per tax rate one revenue credit for the net amount
// and one tax credit when the tax is not zero. Credit notes mirror every side.
func (s SalesScheme) Lines(inv domain.Invoice, label string) ([]domain.LedgerLine, error) {
	_, _, total := inv.Totals()
	if !total.IsPositive() {
		return nil, ErrZeroTotal
	}

	receivable := domain.NewDebitLine(s.ReceivableAccount, total, label)
	receivable.SubsidiaryAccount = SubsidiaryCode(inv.CounterpartyID)
	receivable.SubsidiaryLabel = inv.CounterpartyName
	receivable.DueDate = inv.DueDate
	lines := []domain.LedgerLine{receivable}

	for _, b := range domain.TaxBuckets(inv.Lines) {
		revenue, tax, err := s.accountsFor(b.Rate)
		if err != nil {
			return nil, err
		}
		if b.Net.IsPositive() {
			lines = append(lines, domain.NewCreditLine(revenue, b.Net, label))
		}
		if b.Tax.IsPositive() {
			lines = append(lines, domain.NewCreditLine(tax, b.Tax, label))
		}
	}

	if inv.Kind == domain.InvoiceKindCreditNote {
		for i := range lines {
			lines[i].Debit, lines[i].Credit = lines[i].Credit, lines[i].Debit
		}
	}
	for i := range lines {
		lines[i].LineOrder = i + 1
	}
	return lines, nil
}

// Balance returns debit minus credit over lines.
func Balance(lines []domain.LedgerLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Debit).Sub(l.Credit)
	}
	return sum
}
