package domain

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/utils/canonical"
)

// AuditAction is the kind of mutation or access an AuditRecord describes.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditView   AuditAction = "VIEW"
	AuditExport AuditAction = "EXPORT"
)

// IsValid reports whether a is one of the known actions.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete, AuditView, AuditExport:
		return true
	}
	return false
}

// AuditChange is what a caller hands to the audit trail. Before and After are
// raw field maps; redaction happens before anything is stored or hashed.
type AuditChange struct {
	EntityType    string         `json:"entityType" validate:"required"`
	EntityID      string         `json:"entityID" validate:"required"`
	Action        AuditAction    `json:"action" validate:"required"`
	Before        map[string]any `json:"before,omitempty"`
	After         map[string]any `json:"after,omitempty"`
	Justification string         `json:"justification,omitempty"`
}

// AuditRecord is one link of the global audit chain.
type AuditRecord struct {
	Sequence      int64           `json:"sequence"`
	RecordID      string          `json:"recordID"`
	EntityType    string          `json:"entityType"`
	EntityID      string          `json:"entityID"`
	Action        AuditAction     `json:"action"`
	Before        json.RawMessage `json:"before"`
	After         json.RawMessage `json:"after"`
	ChangedFields []string        `json:"changedFields"`
	Justification string          `json:"justification,omitempty"`
	ActorID       string          `json:"actorID"`
	IPAddress     string          `json:"ipAddress"`
	UserAgent     string          `json:"userAgent"`
	SessionID     string          `json:"sessionID"`
	Timestamp     time.Time       `json:"timestamp"` // microsecond precision
	PreviousHash  string          `json:"previousHash"`
	Hash          string          `json:"hash"`
}

// ComputeHash returns SHA-256 over the canonical JSON of the hashed fields.
// Justification, user agent and session are stored but not hashed.
func (r AuditRecord) ComputeHash() (string, error) {
	return canonical.Hash(map[string]any{
		"type":         r.EntityType,
		"id":           r.EntityID,
		"action":       string(r.Action),
		"before":       rawOrNull(r.Before),
		"after":        rawOrNull(r.After),
		"actorId":      r.ActorID,
		"timestamp":    r.Timestamp.UnixMicro(),
		"ip":           r.IPAddress,
		"previousHash": r.PreviousHash,
	})
}

func rawOrNull(m json.RawMessage) json.RawMessage {
	if len(m) == 0 {
		return json.RawMessage("null")
	}
	return m
}

// Discrepancy kinds reported by audit chain verification.
const (
	DiscrepancyHashMismatch = "hash_mismatch"
	DiscrepancyLinkBroken   = "link_broken"
	DiscrepancySequenceGap  = "sequence_gap"
)

// AnchorPosition marks a discrepancy on the anchor record read ahead of the window.
const AnchorPosition = -1

// ChainDiscrepancy pinpoints one failure in the audit chain. Position is the
// zero-based index within the verified window, in creation order, or
// AnchorPosition for the record just before the window.
type ChainDiscrepancy struct {
	Position int    `json:"position"`
	Sequence int64  `json:"sequence"`
	Kind     string `json:"kind"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ChainReport is the outcome of an audit chain walk.
type ChainReport struct {
	Checked       int                `json:"checked"`
	FirstSequence int64              `json:"firstSequence"`
	LastSequence  int64              `json:"lastSequence"`
	Valid         bool               `json:"valid"`
	Discrepancies []ChainDiscrepancy `json:"discrepancies"`
	VerifiedAt    time.Time          `json:"verifiedAt"`
}

// Suspicious activity kinds.
const (
	SuspiciousOffHours   = "off_hours"
	SuspiciousBulkDelete = "bulk_delete"
)

// SuspiciousActivity is an anomaly flagged from audit records. It carries no
// verdict; reviewing it is left to a human.
type SuspiciousActivity struct {
	Kind        string    `json:"kind"`
	ActorID     string    `json:"actorID"`
	Sequences   []int64   `json:"sequences"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Description string    `json:"description"`
}
