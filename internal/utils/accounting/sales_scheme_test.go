package accounting

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoice(kind domain.InvoiceKind, lines ...domain.InvoiceLine) domain.Invoice {
	return domain.Invoice{
		InvoiceID:        "inv-1",
		Number:           "FA-1",
		Kind:             kind,
		IssueDate:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CounterpartyID:   42,
		CounterpartyName: "ACME",
		Currency:         "EUR",
		Lines:            lines,
	}
}

func TestSubsidiaryCode(t *testing.T) {
	assert.Equal(t, "C00000042", SubsidiaryCode(42))
	assert.Equal(t, "C12345678", SubsidiaryCode(12345678))
}

func TestLinesSingleRate(t *testing.T) {
	scheme := NewSalesScheme("411000", "701900", DefaultRateAccounts())
	lines, err := scheme.Lines(invoice(domain.InvoiceKindStandard,
		domain.InvoiceLine{LineID: "l1", Quantity: d("1"), UnitPrice: d("1000.00"), TaxRate: d("20")}), "Invoice FA-1")
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "411000", lines[0].AccountCode)
	assert.Equal(t, "1200.00", domain.FormatMoney(lines[0].Debit))
	assert.Equal(t, "C00000042", lines[0].SubsidiaryAccount)
	assert.Equal(t, "701000", lines[1].AccountCode)
	assert.Equal(t, "1000.00", domain.FormatMoney(lines[1].Credit))
	assert.Equal(t, "445711", lines[2].AccountCode)
	assert.Equal(t, "200.00", domain.FormatMoney(lines[2].Credit))
	assert.True(t, Balance(lines).IsZero())
	assert.Equal(t, []int{1, 2, 3}, []int{lines[0].LineOrder, lines[1].LineOrder, lines[2].LineOrder})
}

func TestLinesMixedRatesAndExempt(t *testing.T) {
	scheme := NewSalesScheme("411000", "701900", DefaultRateAccounts())
	lines, err := scheme.Lines(invoice(domain.InvoiceKindStandard,
		domain.InvoiceLine{LineID: "a", Quantity: d("3"), UnitPrice: d("33.33"), TaxRate: d("20")},
		domain.InvoiceLine{LineID: "b", Quantity: d("1"), UnitPrice: d("19.99"), TaxRate: d("5.5")},
		domain.InvoiceLine{LineID: "c", Quantity: d("2"), UnitPrice: d("7.50"), TaxRate: d("0")},
	), "x")
	require.NoError(t, err)

	accounts := make([]string, 0, len(lines))
	for _, l := range lines {
		accounts = append(accounts, l.AccountCode)
		require.NoError(t, l.Validate())
	}
	assert.Equal(t, []string{"411000", "701000", "445711", "701200", "445713", "701900"}, accounts)
	assert.True(t, Balance(lines).IsZero())
}

func TestLinesCreditNoteMirrors(t *testing.T) {
	scheme := NewSalesScheme("411000", "701900", DefaultRateAccounts())
	lines, err := scheme.Lines(invoice(domain.InvoiceKindCreditNote,
		domain.InvoiceLine{LineID: "l1", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("10")}), "x")
	require.NoError(t, err)
	assert.Equal(t, "110.00", domain.FormatMoney(lines[0].Credit))
	assert.True(t, lines[0].Debit.IsZero())
	assert.Equal(t, "100.00", domain.FormatMoney(lines[1].Debit))
	assert.Equal(t, "10.00", domain.FormatMoney(lines[2].Debit))
}

func TestLinesErrors(t *testing.T) {
	scheme := NewSalesScheme("411000", "701900", DefaultRateAccounts())
	_, err := scheme.Lines(invoice(domain.InvoiceKindStandard,
		domain.InvoiceLine{LineID: "l1", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("8.5")}), "x")
	assert.True(t, errors.Is(err, ErrUnmappedRate))

	_, err = scheme.Lines(invoice(domain.InvoiceKindStandard,
		domain.InvoiceLine{LineID: "l1", Quantity: d("1"), UnitPrice: d("0"), TaxRate: d("20")}), "x")
	assert.ErrorIs(t, err, ErrZeroTotal)

	withRate := scheme.WithRate(RateAccounts{Rate: d("8.5"), RevenueAccount: "701400", TaxAccount: "445715"})
	codes, err := withRate.AccountCodes(invoice(domain.InvoiceKindStandard,
		domain.InvoiceLine{LineID: "l1", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("8.5")}))
	require.NoError(t, err)
	assert.Equal(t, []string{"411000", "701400", "445715"}, codes)
}
