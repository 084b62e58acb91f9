package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/SscSPs/ledger_integrity/internal/models"
)

// ToModelIntegrityRecord converts a domain IntegrityRecord to a model IntegrityRecord
func ToModelIntegrityRecord(d domain.IntegrityRecord) (models.IntegrityRecord, error) {
	metadata, err := json.Marshal(d.Metadata)
	if err != nil {
		return models.IntegrityRecord{}, fmt.Errorf("marshal compliance metadata: %w", err)
	}
	return models.IntegrityRecord{
		RecordID:           d.RecordID,
		DocumentType:       string(d.DocumentType),
		DocumentID:         d.DocumentID,
		DocumentNumber:     d.DocumentNumber,
		DocumentHash:       d.DocumentHash,
		PreviousHash:       nullString(d.PreviousHash),
		RecordHash:         d.RecordHash,
		Signature:          d.Signature,
		ChainPosition:      d.ChainPosition,
		CreatedAt:          d.CreatedAt,
		CreatedBy:          d.CreatedBy,
		IPAddress:          d.IPAddress,
		UserAgent:          d.UserAgent,
		Metadata:           metadata,
		VerificationStatus: string(d.Status),
		LastVerifiedAt:     nullTime(d.LastVerifiedAt),
	}, nil
}

// ToDomainIntegrityRecord converts a model IntegrityRecord to a domain IntegrityRecord
func ToDomainIntegrityRecord(m models.IntegrityRecord) (domain.IntegrityRecord, error) {
	var metadata domain.ComplianceMetadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return domain.IntegrityRecord{}, fmt.Errorf("unmarshal compliance metadata of %s: %w", m.RecordID, err)
		}
	}
	return domain.IntegrityRecord{
		RecordID:       m.RecordID,
		DocumentType:   domain.DocumentType(m.DocumentType),
		DocumentID:     m.DocumentID,
		DocumentNumber: m.DocumentNumber,
		DocumentHash:   m.DocumentHash,
		PreviousHash:   m.PreviousHash.String,
		RecordHash:     m.RecordHash,
		Signature:      m.Signature,
		ChainPosition:  m.ChainPosition,
		CreatedAt:      m.CreatedAt.UTC(),
		CreatedBy:      m.CreatedBy,
		IPAddress:      m.IPAddress,
		UserAgent:      m.UserAgent,
		Metadata:       metadata,
		Status:         domain.VerificationStatus(m.VerificationStatus),
		LastVerifiedAt: timePtr(m.LastVerifiedAt),
	}, nil
}

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord{
		Sequence:      d.Sequence,
		RecordID:      d.RecordID,
		EntityType:    d.EntityType,
		EntityID:      d.EntityID,
		Action:        string(d.Action),
		BeforeImage:   rawImage(d.Before),
		AfterImage:    rawImage(d.After),
		ChangedFields: d.ChangedFields,
		Justification: nullString(d.Justification),
		ActorID:       d.ActorID,
		IPAddress:     d.IPAddress,
		UserAgent:     d.UserAgent,
		SessionID:     d.SessionID,
		RecordedAt:    d.Timestamp,
		PreviousHash:  nullString(d.PreviousHash),
		Hash:          d.Hash,
	}
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	return domain.AuditRecord{
		Sequence:      m.Sequence,
		RecordID:      m.RecordID,
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		Action:        domain.AuditAction(m.Action),
		Before:        rawImage(m.BeforeImage),
		After:         rawImage(m.AfterImage),
		ChangedFields: m.ChangedFields,
		Justification: m.Justification.String,
		ActorID:       m.ActorID,
		IPAddress:     m.IPAddress,
		UserAgent:     m.UserAgent,
		SessionID:     m.SessionID,
		Timestamp:     m.RecordedAt.UTC(),
		PreviousHash:  m.PreviousHash.String,
		Hash:          m.Hash,
	}
}

// rawImage keeps a json image byte-exact; empty and "null" both map to NULL.
func rawImage(b []byte) []byte {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return b
}
