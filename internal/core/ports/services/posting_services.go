package services

import (
	"context"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// PostingWriterSvc defines the ledger mutations.
type PostingWriterSvc interface {
	// PostInvoice turns an invoice or credit note into a balanced entry, seals
	// the document and logs the creation, all in one transaction.
	PostInvoice(ctx context.Context, invoice domain.Invoice, actor domain.Actor) (*domain.LedgerEntry, error)

	// CancelPosting deletes an entry that has not been validated yet.
	CancelPosting(ctx context.Context, entryID string, justification string, actor domain.Actor) error

	// ValidateEntry freezes an entry. A validated entry can no longer be cancelled.
	ValidateEntry(ctx context.Context, entryID string, actor domain.Actor) (*domain.LedgerEntry, error)
}

// PostingReaderSvc defines ledger reads.
type PostingReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error)
}

// PostingSvcFacade combines all posting-related service interfaces
type PostingSvcFacade interface {
	PostingWriterSvc
	PostingReaderSvc
}
