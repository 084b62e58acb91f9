package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// AuditReader defines read operations for the audit chain
type AuditReader interface {
	// ListLatestAuditRecords returns the most recent records in ascending sequence order.
	ListLatestAuditRecords(ctx context.Context, limit int) ([]domain.AuditRecord, error)

	// ListAuditRecordsSince returns records with a timestamp at or after since, ascending.
	ListAuditRecordsSince(ctx context.Context, since time.Time) ([]domain.AuditRecord, error)

	// ListAuditRecords pages backwards through the chain, newest first.
	// beforeSequence is exclusive; nil starts at the tail.
	ListAuditRecords(ctx context.Context, limit int, beforeSequence *int64) ([]domain.AuditRecord, error)
}

// AuditTxWriter defines the audit appends that must run inside a Tx.
type AuditTxWriter interface {
	// LockAuditTail locks the single global chain head until the transaction ends.
	LockAuditTail(ctx context.Context) (ChainTail, error)

	// InsertAuditRecord appends a record. The sequence must be tail+1.
	InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error
}
