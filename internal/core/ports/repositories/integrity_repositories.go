package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// ChainTail is the locked head of a hash chain.
type ChainTail struct {
	LastPosition int64
	LastHash     string // empty when the chain has no record yet
}

// IntegrityReader defines read operations for integrity records
type IntegrityReader interface {
	// FindLatestIntegrityRecord returns the most recent seal of a document.
	FindLatestIntegrityRecord(ctx context.Context, docType domain.DocumentType, documentID string) (*domain.IntegrityRecord, error)

	// FindIntegrityRecordByPosition returns the record at a chain position.
	FindIntegrityRecordByPosition(ctx context.Context, docType domain.DocumentType, position int64) (*domain.IntegrityRecord, error)

	// ListIntegrityChain returns every record of a type in chain order.
	ListIntegrityChain(ctx context.Context, docType domain.DocumentType) ([]domain.IntegrityRecord, error)
}

// IntegrityTxWriter defines the chain appends that must run inside a Tx.
type IntegrityTxWriter interface {
	// LockChainTail locks the head of a per-type chain until the transaction ends.
	LockChainTail(ctx context.Context, docType domain.DocumentType) (ChainTail, error)

	// InsertIntegrityRecord appends a record. The position must be tail+1.
	InsertIntegrityRecord(ctx context.Context, record domain.IntegrityRecord) error
}

// IntegrityStatusWriter updates the cached verification fields, the only
// mutable part of an integrity record.
type IntegrityStatusWriter interface {
	UpdateVerificationStatus(ctx context.Context, recordID string, status domain.VerificationStatus, verifiedAt time.Time) error
}
