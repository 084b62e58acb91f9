package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

// AuditWriterSvc appends to the global audit chain.
type AuditWriterSvc interface {
	LogChange(ctx context.Context, change domain.AuditChange, actor domain.Actor) (*domain.AuditRecord, error)
	LogChangeInTx(ctx context.Context, tx portsrepo.Tx, change domain.AuditChange, actor domain.Actor) (*domain.AuditRecord, error)
}

// AuditReaderSvc exposes the audit chain to compliance callers.
type AuditReaderSvc interface {
	// VerifyChain recomputes the latest limit records and reports every discrepancy.
	VerifyChain(ctx context.Context, limit int) (*domain.ChainReport, error)

	// DetectSuspiciousActivity flags off-hours records and bulk-delete bursts.
	DetectSuspiciousActivity(ctx context.Context, since time.Time) ([]domain.SuspiciousActivity, error)

	// ListRecords pages through the chain, newest first.
	ListRecords(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)
}

// AuditSvcFacade combines all audit-related service interfaces
type AuditSvcFacade interface {
	AuditWriterSvc
	AuditReaderSvc
}
