package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/utils/canonical"
	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes standard invoices from credit notes.
type InvoiceKind string

const (
	InvoiceKindStandard   InvoiceKind = "STANDARD"
	InvoiceKindCreditNote InvoiceKind = "CREDIT_NOTE"
)

var (
	ErrInvoiceQuantity = errors.New("invoice line quantity must be positive")
	ErrInvoicePrice    = errors.New("invoice line unit price must not be negative")
	ErrInvoiceTaxRate  = errors.New("invoice line tax rate must be between 0 and 100")
)

// Invoice is a customer invoice or credit note as handed over by the
// commercial module. Only the fields the ledger core needs are carried.
type Invoice struct {
	InvoiceID        string           `json:"invoiceID" validate:"required"`
	Number           string           `json:"number" validate:"required,max=20"`
	Kind             InvoiceKind      `json:"kind" validate:"required,oneof=STANDARD CREDIT_NOTE"`
	IssueDate        time.Time        `json:"issueDate" validate:"required"`
	DueDate          *time.Time       `json:"dueDate,omitempty"`
	CounterpartyID   int64            `json:"counterpartyID" validate:"required,gt=0"`
	CounterpartyName string           `json:"counterpartyName" validate:"required"`
	Currency         string           `json:"currency" validate:"required,len=3"`
	Status           string           `json:"status"`
	Lines            []InvoiceLine    `json:"lines" validate:"required,min=1,dive"`
	DeclaredTotal    *decimal.Decimal `json:"declaredTotal,omitempty"` // tax-inclusive total printed on the document
	Version          int              `json:"version"`
}

// InvoiceLine is one item of an invoice or quote.
type InvoiceLine struct {
	LineID      string          `json:"lineID" validate:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // percent, 20 means 20 %
}

// Validate checks the numeric constraints the validator tags cannot express.
func (l InvoiceLine) Validate() error {
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: line %s", ErrInvoiceQuantity, l.LineID)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: line %s", ErrInvoicePrice, l.LineID)
	}
	if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(hundred) {
		return fmt.Errorf("%w: line %s rate %s", ErrInvoiceTaxRate, l.LineID, l.TaxRate)
	}
	return nil
}

// NetAmount returns quantity * unit price rounded to the money scale.
func (l InvoiceLine) NetAmount() decimal.Decimal {
	return RoundMoney(l.Quantity.Mul(l.UnitPrice))
}

// TaxAmount returns the line tax rounded to the money scale.
func (l InvoiceLine) TaxAmount() decimal.Decimal {
	return ApplyRate(l.NetAmount(), l.TaxRate)
}

// Hash returns the canonical hash of one line, used as a per-item hash in the
// document seal.
func (l InvoiceLine) Hash() (string, error) {
	return canonical.Hash(map[string]any{
		"line_id":    l.LineID,
		"quantity":   l.Quantity.String(),
		"unit_price": l.UnitPrice.String(),
		"tax_rate":   l.TaxRate.String(),
		"net":        FormatMoney(l.NetAmount()),
		"tax":        FormatMoney(l.TaxAmount()),
	})
}

// TaxBucket aggregates invoice lines sharing a tax rate.
type TaxBucket struct {
	Rate decimal.Decimal
	Net  decimal.Decimal
	Tax  decimal.Decimal
}

// TaxBuckets groups lines by tax rate, ordered by descending rate so that
// postings are emitted in a stable order.
func TaxBuckets(lines []InvoiceLine) []TaxBucket {
	byRate := make(map[string]*TaxBucket)
	for _, l := range lines {
		key := l.TaxRate.String()
		b, ok := byRate[key]
		if !ok {
			b = &TaxBucket{Rate: l.TaxRate, Net: decimal.Zero, Tax: decimal.Zero}
			byRate[key] = b
		}
		b.Net = b.Net.Add(l.NetAmount())
		b.Tax = b.Tax.Add(l.TaxAmount())
	}
	buckets := make([]TaxBucket, 0, len(byRate))
	for _, b := range byRate {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Rate.GreaterThan(buckets[j].Rate)
	})
	return buckets
}

// Totals returns the net, tax and tax-inclusive totals computed from the lines.
func (inv Invoice) Totals() (net, tax, total decimal.Decimal) {
	net, tax = decimal.Zero, decimal.Zero
	for _, b := range TaxBuckets(inv.Lines) {
		net = net.Add(b.Net)
		tax = tax.Add(b.Tax)
	}
	return net, tax, net.Add(tax)
}

// DocumentRef implements SealableDocument.
func (inv Invoice) DocumentRef() DocumentRef {
	t := DocumentTypeInvoice
	if inv.Kind == InvoiceKindCreditNote {
		t = DocumentTypeCreditNote
	}
	return DocumentRef{Type: t, ID: inv.InvoiceID, Number: inv.Number}
}

// DocumentVersion implements SealableDocument.
func (inv Invoice) DocumentVersion() int {
	if inv.Version <= 0 {
		return 1
	}
	return inv.Version
}

// CanonicalFields implements SealableDocument.
func (inv Invoice) CanonicalFields() (map[string]any, error) {
	itemHashes := make([]any, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		h, err := l.Hash()
		if err != nil {
			return nil, err
		}
		itemHashes = append(itemHashes, h)
	}
	net, tax, total := inv.Totals()
	fields := map[string]any{
		"invoice_id":      inv.InvoiceID,
		"number":          inv.Number,
		"kind":            string(inv.Kind),
		"issue_date":      inv.IssueDate.Format(DateLayout),
		"counterparty_id": inv.CounterpartyID,
		"currency":        inv.Currency,
		"status":          inv.Status,
		"total_net":       FormatMoney(net),
		"total_tax":       FormatMoney(tax),
		"total_incl_tax":  FormatMoney(total),
		"item_hashes":     itemHashes,
	}
	if inv.DueDate != nil {
		fields["due_date"] = inv.DueDate.Format(DateLayout)
	}
	return fields, nil
}
