package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a commercial proposal. Quotes are sealed but never posted.
type Quote struct {
	QuoteID        string        `json:"quoteID" validate:"required"`
	Number         string        `json:"number" validate:"required"`
	IssueDate      time.Time     `json:"issueDate" validate:"required"`
	ValidUntil     time.Time     `json:"validUntil" validate:"required,gtefield=IssueDate"`
	CounterpartyID int64         `json:"counterpartyID" validate:"required,gt=0"`
	Status         string        `json:"status"`
	Lines          []InvoiceLine `json:"lines" validate:"required,min=1,dive"`
	Version        int           `json:"version"`
}

// DocumentRef implements SealableDocument.
func (q Quote) DocumentRef() DocumentRef {
	return DocumentRef{Type: DocumentTypeQuote, ID: q.QuoteID, Number: q.Number}
}

// DocumentVersion implements SealableDocument.
func (q Quote) DocumentVersion() int {
	if q.Version <= 0 {
		return 1
	}
	return q.Version
}

// CanonicalFields implements SealableDocument.
func (q Quote) CanonicalFields() (map[string]any, error) {
	itemHashes := make([]any, 0, len(q.Lines))
	total := decimal.Zero
	for _, l := range q.Lines {
		h, err := l.Hash()
		if err != nil {
			return nil, err
		}
		itemHashes = append(itemHashes, h)
		total = total.Add(l.NetAmount()).Add(l.TaxAmount())
	}
	return map[string]any{
		"quote_id":        q.QuoteID,
		"number":          q.Number,
		"issue_date":      q.IssueDate.Format(DateLayout),
		"valid_until":     q.ValidUntil.Format(DateLayout),
		"counterparty_id": q.CounterpartyID,
		"status":          q.Status,
		"total_incl_tax":  FormatMoney(total),
		"item_hashes":     itemHashes,
	}, nil
}
