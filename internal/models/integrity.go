package models

import (
	"database/sql"
	"time"
)

// IntegrityRecord is a row of integrity_records. Metadata is stored as jsonb.
type IntegrityRecord struct {
	RecordID           string         `db:"record_id"`
	DocumentType       string         `db:"document_type"`
	DocumentID         string         `db:"document_id"`
	DocumentNumber     string         `db:"document_number"`
	DocumentHash       string         `db:"document_hash"`
	PreviousHash       sql.NullString `db:"previous_hash"`
	RecordHash         string         `db:"record_hash"`
	Signature          string         `db:"signature"`
	ChainPosition      int64          `db:"chain_position"`
	CreatedAt          time.Time      `db:"created_at"`
	CreatedBy          string         `db:"created_by"`
	IPAddress          string         `db:"ip_address"`
	UserAgent          string         `db:"user_agent"`
	Metadata           []byte         `db:"metadata"`
	VerificationStatus string         `db:"verification_status"`
	LastVerifiedAt     sql.NullTime   `db:"last_verified_at"`
}

// AuditRecord is a row of audit_records. The images are raw json, nil for NULL.
type AuditRecord struct {
	Sequence      int64          `db:"sequence"`
	RecordID      string         `db:"record_id"`
	EntityType    string         `db:"entity_type"`
	EntityID      string         `db:"entity_id"`
	Action        string         `db:"action"`
	BeforeImage   []byte         `db:"before_image"`
	AfterImage    []byte         `db:"after_image"`
	ChangedFields []string       `db:"changed_fields"`
	Justification sql.NullString `db:"justification"`
	ActorID       string         `db:"actor_id"`
	IPAddress     string         `db:"ip_address"`
	UserAgent     string         `db:"user_agent"`
	SessionID     string         `db:"session_id"`
	RecordedAt    time.Time      `db:"recorded_at"`
	PreviousHash  sql.NullString `db:"previous_hash"`
	Hash          string         `db:"hash"`
}
