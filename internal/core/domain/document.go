package domain

// DocumentType identifies a stream of business documents. Each type has its
// own independent integrity chain.
type DocumentType string

const (
	DocumentTypeInvoice     DocumentType = "invoice"
	DocumentTypeCreditNote  DocumentType = "credit_note"
	DocumentTypeQuote       DocumentType = "quote"
	DocumentTypeLedgerEntry DocumentType = "ledger_entry"
)

// DocumentRef points at a business document.
type DocumentRef struct {
	Type   DocumentType `json:"type"`
	ID     string       `json:"id"`
	Number string       `json:"number"`
}

// SealableDocument is implemented once per document kind. CanonicalFields returns
// the fixed, kind-specific subset of business fields covered by the document hash;
// values must be JSON-stable (strings for amounts and dates).
type SealableDocument interface {
	DocumentRef() DocumentRef
	DocumentVersion() int
	CanonicalFields() (map[string]any, error)
}
