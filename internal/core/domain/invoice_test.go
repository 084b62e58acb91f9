package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() domain.Invoice {
	return domain.Invoice{
		InvoiceID:        "inv-1",
		Number:           "FA2024-0001",
		Kind:             domain.InvoiceKindStandard,
		IssueDate:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		CounterpartyID:   42,
		CounterpartyName: "ACME",
		Currency:         "EUR",
		Status:           "issued",
		Lines: []domain.InvoiceLine{
			{LineID: "l1", Quantity: dec("10"), UnitPrice: dec("100.00"), TaxRate: dec("20")},
		},
	}
}

func TestInvoiceTotals(t *testing.T) {
	net, tax, total := sampleInvoice().Totals()
	assert.Equal(t, "1000.00", domain.FormatMoney(net))
	assert.Equal(t, "200.00", domain.FormatMoney(tax))
	assert.Equal(t, "1200.00", domain.FormatMoney(total))
}

func TestTaxBucketsGroupAndOrder(t *testing.T) {
	lines := []domain.InvoiceLine{
		{LineID: "a", Quantity: dec("1"), UnitPrice: dec("10.00"), TaxRate: dec("5.5")},
		{LineID: "b", Quantity: dec("3"), UnitPrice: dec("0.333"), TaxRate: dec("20")},
		{LineID: "c", Quantity: dec("1"), UnitPrice: dec("5.00"), TaxRate: dec("0")},
		{LineID: "d", Quantity: dec("2"), UnitPrice: dec("1.00"), TaxRate: dec("20.0")},
	}
	buckets := domain.TaxBuckets(lines)
	require.Len(t, buckets, 3)
	assert.Equal(t, "20", buckets[0].Rate.String())
	assert.Equal(t, "3.00", domain.FormatMoney(buckets[0].Net)) // 1.00 (0.999 rounded) + 2.00
	assert.Equal(t, "0.60", domain.FormatMoney(buckets[0].Tax))
	assert.Equal(t, "5.5", buckets[1].Rate.String())
	assert.Equal(t, "0.55", domain.FormatMoney(buckets[1].Tax))
	assert.True(t, buckets[2].Rate.IsZero())
	assert.True(t, buckets[2].Tax.IsZero())
}

func TestInvoiceLineValidate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.InvoiceLine
		wantErr error
	}{
		{"valid", domain.InvoiceLine{LineID: "x", Quantity: dec("1"), UnitPrice: dec("1"), TaxRate: dec("20")}, nil},
		{"zero quantity", domain.InvoiceLine{LineID: "x", Quantity: dec("0"), UnitPrice: dec("1"), TaxRate: dec("20")}, domain.ErrInvoiceQuantity},
		{"negative price", domain.InvoiceLine{LineID: "x", Quantity: dec("1"), UnitPrice: dec("-1"), TaxRate: dec("20")}, domain.ErrInvoicePrice},
		{"rate above 100", domain.InvoiceLine{LineID: "x", Quantity: dec("1"), UnitPrice: dec("1"), TaxRate: dec("120")}, domain.ErrInvoiceTaxRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInvoiceDocumentHashIsDeterministic(t *testing.T) {
	a, err := domain.ComputeDocumentHash(sampleInvoice())
	require.NoError(t, err)
	b, err := domain.ComputeDocumentHash(sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Equal values built differently must hash the same.
	inv := sampleInvoice()
	inv.Lines[0].UnitPrice = dec("100")
	c, err := domain.ComputeDocumentHash(inv)
	require.NoError(t, err)
	assert.Equal(t, a, c, "trailing zeros do not change the line hash")
}

func TestInvoiceDocumentHashCoversCanonicalFields(t *testing.T) {
	base, err := domain.ComputeDocumentHash(sampleInvoice())
	require.NoError(t, err)

	mutations := map[string]func(*domain.Invoice){
		"number":       func(i *domain.Invoice) { i.Number = "FA2024-0002" },
		"issue date":   func(i *domain.Invoice) { i.IssueDate = i.IssueDate.AddDate(0, 0, 1) },
		"counterparty": func(i *domain.Invoice) { i.CounterpartyID = 43 },
		"status":       func(i *domain.Invoice) { i.Status = "paid" },
		"quantity":     func(i *domain.Invoice) { i.Lines[0].Quantity = dec("11") },
		"tax rate":     func(i *domain.Invoice) { i.Lines[0].TaxRate = dec("10") },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			inv := sampleInvoice()
			mutate(&inv)
			h, err := domain.ComputeDocumentHash(inv)
			require.NoError(t, err)
			assert.NotEqual(t, base, h)
		})
	}

	// Description is not a canonical field.
	inv := sampleInvoice()
	inv.Lines[0].Description = "changed"
	h, err := domain.ComputeDocumentHash(inv)
	require.NoError(t, err)
	assert.Equal(t, base, h)
}

func TestCreditNoteDocumentRef(t *testing.T) {
	inv := sampleInvoice()
	inv.Kind = domain.InvoiceKindCreditNote
	assert.Equal(t, domain.DocumentTypeCreditNote, inv.DocumentRef().Type)
	assert.Equal(t, 1, inv.DocumentVersion())
}

func TestQuoteCanonicalFields(t *testing.T) {
	q := domain.Quote{
		QuoteID:        "q-1",
		Number:         "DE-1",
		IssueDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		CounterpartyID: 7,
		Lines:          []domain.InvoiceLine{{LineID: "l", Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: dec("10")}},
	}
	fields, err := q.CanonicalFields()
	require.NoError(t, err)
	assert.Equal(t, "110.00", fields["total_incl_tax"])
	assert.Equal(t, domain.DocumentTypeQuote, q.DocumentRef().Type)
}

func TestAuditRecordHash(t *testing.T) {
	rec := domain.AuditRecord{
		EntityType:   "ledger_entry",
		EntityID:     "e-1",
		Action:       domain.AuditCreate,
		After:        json.RawMessage(`{"b":1,"a":2}`),
		ActorID:      "u-1",
		IPAddress:    "10.0.0.1",
		Timestamp:    time.Date(2024, 1, 1, 12, 0, 0, 123456000, time.UTC),
		PreviousHash: "abc",
	}
	h1, err := rec.ComputeHash()
	require.NoError(t, err)

	reordered := rec
	reordered.After = json.RawMessage(`{"a":2,"b":1}`)
	h2, err := reordered.ComputeHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "key order of stored images does not affect the hash")

	// Justification and session are not hashed.
	rec.Justification = "typo"
	rec.SessionID = "s"
	h3, err := rec.ComputeHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h3)

	rec.Timestamp = rec.Timestamp.Add(time.Microsecond)
	h4, err := rec.ComputeHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4)
}

func TestIntegrityChecks(t *testing.T) {
	c := domain.IntegrityChecks{HashIntegrity: true, SignatureValid: true, ChainIntegrity: false, TimestampValid: true}
	assert.False(t, c.Valid())
	assert.Equal(t, []string{domain.IntegrityCheckChain}, c.Failed())
	assert.Equal(t, domain.ComputeRecordHash("a", ""), domain.ComputeRecordHash("a", ""))
	assert.NotEqual(t, domain.ComputeRecordHash("a", ""), domain.ComputeRecordHash("a", "b"))
}
