package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
)

// Defaults for the timestamp check.
const (
	DefaultIntegrityClockSkew = 5 * time.Minute
	DefaultIntegrityMaxAge    = 20 * 365 * 24 * time.Hour
)

// maxParallelChains bounds VerifyAllChains.
const maxParallelChains = 4

type integrityService struct {
	BaseService
	store  portsrepo.Store
	signer portssvc.Signer
	audit  portssvc.AuditWriterSvc

	types     map[domain.DocumentType]struct{}
	clockSkew time.Duration
	maxAge    time.Duration
}

// IntegrityOption is a functional option for configuring the integrity service
type IntegrityOption func(*integrityService)

// WithDocumentTypes registers the document types that may be sealed.
func WithDocumentTypes(types ...domain.DocumentType) IntegrityOption {
	return func(s *integrityService) {
		for _, t := range types {
			s.types[t] = struct{}{}
		}
	}
}

// WithTimestampBounds sets the tolerated clock skew and the maximum age of a seal.
func WithTimestampBounds(skew, maxAge time.Duration) IntegrityOption {
	return func(s *integrityService) {
		if skew > 0 {
			s.clockSkew = skew
		}
		if maxAge > 0 {
			s.maxAge = maxAge
		}
	}
}

// WithAuditTrail makes standalone SealDocument calls log a CREATE audit record.
func WithAuditTrail(audit portssvc.AuditWriterSvc) IntegrityOption {
	return func(s *integrityService) {
		s.audit = audit
	}
}

// WithIntegrityClock overrides the time source.
func WithIntegrityClock(c Clock) IntegrityOption {
	return func(s *integrityService) {
		s.Clock = c
	}
}

// NewIntegrityService creates the document sealing service. signer may be nil,
// in which case every seal fails with ErrConfiguration.
func NewIntegrityService(store portsrepo.Store, signer portssvc.Signer, options ...IntegrityOption) portssvc.IntegritySvcFacade {
	svc := &integrityService{
		BaseService: newBaseService(),
		store:       store,
		signer:      signer,
		types:       make(map[domain.DocumentType]struct{}),
		clockSkew:   DefaultIntegrityClockSkew,
		maxAge:      DefaultIntegrityMaxAge,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.IntegritySvcFacade = (*integrityService)(nil)

func (s *integrityService) checkSealable(ref domain.DocumentRef) error {
	if _, ok := s.types[ref.Type]; !ok {
		return apperrors.NewConfigurationError("document type %q is not registered for sealing", ref.Type)
	}
	if s.signer == nil {
		return apperrors.NewConfigurationError("no signing key configured")
	}
	if ref.ID == "" {
		return fmt.Errorf("%w: document id is required", apperrors.ErrValidation)
	}
	return nil
}

// SealDocument seals doc in its own transaction.
func (s *integrityService) SealDocument(ctx context.Context, doc domain.SealableDocument, actor domain.Actor) (*domain.IntegrityRecord, error) {
	var record *domain.IntegrityRecord
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		var err error
		record, err = s.SealInTx(ctx, tx, doc, actor)
		if err != nil {
			return err
		}
		if s.audit == nil {
			return nil
		}
		_, err = s.audit.LogChangeInTx(ctx, tx, domain.AuditChange{
			EntityType: "integrity_record",
			EntityID:   record.RecordID,
			Action:     domain.AuditCreate,
			After: map[string]any{
				"document_type":   string(record.DocumentType),
				"document_id":     record.DocumentID,
				"document_number": record.DocumentNumber,
				"chain_position":  record.ChainPosition,
			},
		}, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SealInTx hashes doc, locks the tail of its chain, signs and appends.
func (s *integrityService) SealInTx(ctx context.Context, tx portsrepo.Tx, doc domain.SealableDocument, actor domain.Actor) (*domain.IntegrityRecord, error) {
	ref := doc.DocumentRef()
	if err := s.checkSealable(ref); err != nil {
		return nil, err
	}

	docHash, err := domain.ComputeDocumentHash(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: canonicalize %s %s: %v", apperrors.ErrValidation, ref.Type, ref.ID, err)
	}

	tail, err := tx.LockChainTail(ctx, ref.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s chain: %w", ref.Type, err)
	}

	sig, err := s.signer.Sign(domain.SignaturePayload(docHash, tail.LastHash))
	if err != nil {
		return nil, fmt.Errorf("%w: signing failed: %v", apperrors.ErrConfiguration, err)
	}

	record := domain.IntegrityRecord{
		RecordID:       uuid.NewString(),
		DocumentType:   ref.Type,
		DocumentID:     ref.ID,
		DocumentNumber: ref.Number,
		DocumentHash:   docHash,
		PreviousHash:   tail.LastHash,
		RecordHash:     domain.ComputeRecordHash(docHash, tail.LastHash),
		Signature:      base64.StdEncoding.EncodeToString(sig),
		ChainPosition:  tail.LastPosition + 1,
		CreatedAt:      s.Now(),
		CreatedBy:      actor.ID,
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
		Metadata: domain.ComplianceMetadata{
			HashAlgorithm:           domain.HashAlgorithmSHA256,
			SignatureAlgorithm:      domain.SignatureAlgorithmRSA,
			CanonicalizationVersion: domain.CanonicalizationVersionV1,
			KeyFingerprint:          s.signer.Fingerprint(),
			DocumentVersion:         doc.DocumentVersion(),
			SealedBy:                actor.ID,
		},
		Status: domain.VerificationUnverified,
	}

	if err := tx.InsertIntegrityRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to append integrity record",
			slog.String("document_type", string(ref.Type)),
			slog.String("document_id", ref.ID),
			slog.Int64("chain_position", record.ChainPosition))
		return nil, err
	}

	s.LogInfo(ctx, "Document sealed",
		slog.String("document_type", string(ref.Type)),
		slog.String("document_id", ref.ID),
		slog.Int64("chain_position", record.ChainPosition))
	return &record, nil
}

// VerifyIntegrity runs the four checks against the latest seal of doc and
// caches the outcome on the record.
func (s *integrityService) VerifyIntegrity(ctx context.Context, doc domain.SealableDocument) (*domain.IntegrityVerification, error) {
	ref := doc.DocumentRef()
	record, err := s.store.FindLatestIntegrityRecord(ctx, ref.Type, ref.ID)
	if err != nil {
		return nil, err
	}

	docHash, err := domain.ComputeDocumentHash(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: canonicalize %s %s: %v", apperrors.ErrValidation, ref.Type, ref.ID, err)
	}

	var prev *domain.IntegrityRecord
	if record.ChainPosition > 1 {
		prev, err = s.store.FindIntegrityRecordByPosition(ctx, ref.Type, record.ChainPosition-1)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	now := s.Now()
	checks := s.runChecks(*record, docHash, prev, now)
	result := &domain.IntegrityVerification{
		Record:     *record,
		Valid:      checks.Valid(),
		Checks:     checks,
		VerifiedAt: now,
	}

	status := domain.VerificationValid
	if result.Valid && record.Status == domain.VerificationCompromised {
		// A compromised record stays compromised; a clean run only refreshes
		// the verification timestamp.
		status = domain.VerificationCompromised
		s.LogWarn(ctx, "Previously compromised record verified clean, status kept",
			slog.String("document_type", string(ref.Type)),
			slog.String("document_id", ref.ID),
			slog.Int64("chain_position", record.ChainPosition))
	}
	if !result.Valid {
		status = domain.VerificationCompromised
		s.LogCritical(ctx, "Document integrity compromised",
			slog.String("document_type", string(ref.Type)),
			slog.String("document_id", ref.ID),
			slog.Int64("chain_position", record.ChainPosition),
			slog.Any("failed_checks", checks.Failed()))
	}
	if err := s.store.UpdateVerificationStatus(ctx, record.RecordID, status, now); err != nil {
		return nil, fmt.Errorf("failed to record verification status: %w", err)
	}
	result.Record.Status = status
	result.Record.LastVerifiedAt = &now
	return result, nil
}

// runChecks evaluates a record. docHash is the freshly recomputed document
// hash, or the stored one when the document itself is not available.
func (s *integrityService) runChecks(record domain.IntegrityRecord, docHash string, prev *domain.IntegrityRecord, now time.Time) domain.IntegrityChecks {
	checks := domain.IntegrityChecks{
		HashIntegrity: docHash == record.DocumentHash &&
			domain.ComputeRecordHash(record.DocumentHash, record.PreviousHash) == record.RecordHash,
		SignatureValid: s.verifySignature(record),
		TimestampValid: !record.CreatedAt.IsZero() &&
			!record.CreatedAt.After(now.Add(s.clockSkew)) &&
			now.Sub(record.CreatedAt) <= s.maxAge,
	}
	if record.ChainPosition == 1 {
		checks.ChainIntegrity = record.PreviousHash == ""
	} else {
		checks.ChainIntegrity = prev != nil && prev.RecordHash == record.PreviousHash
	}
	return checks
}

func (s *integrityService) verifySignature(record domain.IntegrityRecord) bool {
	if s.signer == nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(record.Signature)
	if err != nil {
		return false
	}
	return s.signer.Verify(domain.SignaturePayload(record.DocumentHash, record.PreviousHash), sig) == nil
}

// VerifyChain walks a whole per-type chain from one snapshot. Documents are
// not reloaded, so hash_integrity covers record consistency only. Records
// that fail are marked compromised.
func (s *integrityService) VerifyChain(ctx context.Context, docType domain.DocumentType) (*domain.ChainVerification, error) {
	records, err := s.store.ListIntegrityChain(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s chain: %w", docType, err)
	}

	now := s.Now()
	result := &domain.ChainVerification{
		DocumentType: docType,
		RecordCount:  len(records),
		Breaks:       []domain.ChainBreak{},
		VerifiedAt:   now,
	}

	var prev *domain.IntegrityRecord
	for i := range records {
		rec := records[i]
		checks := s.runChecks(rec, rec.DocumentHash, prev, now)
		if rec.ChainPosition != int64(i+1) {
			checks.ChainIntegrity = false
		}
		if !checks.Valid() {
			brk := domain.ChainBreak{
				ChainPosition: rec.ChainPosition,
				RecordID:      rec.RecordID,
				DocumentID:    rec.DocumentID,
				FailedChecks:  checks.Failed(),
			}
			if !checks.ChainIntegrity && prev != nil {
				brk.Expected, brk.Actual = prev.RecordHash, rec.PreviousHash
			}
			result.Breaks = append(result.Breaks, brk)
			if err := s.store.UpdateVerificationStatus(ctx, rec.RecordID, domain.VerificationCompromised, now); err != nil {
				return nil, fmt.Errorf("failed to record verification status: %w", err)
			}
		}
		prev = &records[i]
	}
	result.Valid = len(result.Breaks) == 0

	if !result.Valid {
		s.LogCritical(ctx, "Integrity chain broken",
			slog.String("document_type", string(docType)),
			slog.Int("breaks", len(result.Breaks)))
	} else {
		s.LogInfo(ctx, "Integrity chain verified",
			slog.String("document_type", string(docType)),
			slog.Int("records", result.RecordCount))
	}
	return result, nil
}

// VerifyAllChains verifies every registered type concurrently. Results are
// ordered by document type.
func (s *integrityService) VerifyAllChains(ctx context.Context) ([]domain.ChainVerification, error) {
	types := make([]domain.DocumentType, 0, len(s.types))
	for t := range s.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var mu sync.Mutex
	results := make([]domain.ChainVerification, 0, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChains)
	for _, t := range types {
		t := t
		g.Go(func() error {
			res, err := s.VerifyChain(gctx, t)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, *res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].DocumentType < results[j].DocumentType })
	return results, nil
}
