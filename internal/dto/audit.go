package dto

import "github.com/SscSPs/ledger_integrity/internal/core/domain"

// ListAuditRecordsParams are the query parameters of the audit listing.
type ListAuditRecordsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAuditRecordsResponse is one page of the audit chain, newest first.
type ListAuditRecordsResponse struct {
	Records   []domain.AuditRecord `json:"records"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// VerifyAuditParams are the query parameters of an audit chain verification.
type VerifyAuditParams struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100000"`
}

// SuspiciousActivityParams selects the window of the anomaly scan.
type SuspiciousActivityParams struct {
	Since string `form:"since" binding:"required"` // RFC 3339
}

// SuspiciousActivityResponse wraps the flagged anomalies.
type SuspiciousActivityResponse struct {
	Activities []domain.SuspiciousActivity `json:"activities"`
}
