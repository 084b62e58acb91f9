package services

import (
	"context"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

// Signer produces and checks document signatures.
type Signer interface {
	// Sign returns the signature of payload.
	Sign(payload []byte) ([]byte, error)
	// Verify returns nil when signature matches payload.
	Verify(payload, signature []byte) error
	// Fingerprint identifies the public key, recorded in compliance metadata.
	Fingerprint() string
}

// IntegritySealerSvc appends documents to their per-type chain.
type IntegritySealerSvc interface {
	// SealDocument seals doc in its own transaction.
	SealDocument(ctx context.Context, doc domain.SealableDocument, actor domain.Actor) (*domain.IntegrityRecord, error)

	// SealInTx seals doc inside a caller-owned transaction.
	SealInTx(ctx context.Context, tx portsrepo.Tx, doc domain.SealableDocument, actor domain.Actor) (*domain.IntegrityRecord, error)
}

// IntegrityVerifierSvc checks sealed documents and chains.
type IntegrityVerifierSvc interface {
	// VerifyIntegrity runs the four checks on the latest seal of doc.
	VerifyIntegrity(ctx context.Context, doc domain.SealableDocument) (*domain.IntegrityVerification, error)

	// VerifyChain walks every record of one document type.
	VerifyChain(ctx context.Context, docType domain.DocumentType) (*domain.ChainVerification, error)

	// VerifyAllChains verifies every registered document type.
	VerifyAllChains(ctx context.Context) ([]domain.ChainVerification, error)
}

// IntegritySvcFacade combines all integrity-related service interfaces
type IntegritySvcFacade interface {
	IntegritySealerSvc
	IntegrityVerifierSvc
}
