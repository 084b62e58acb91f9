package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor ID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Actor ID
}

// Actor identifies who performs a mutation and from where.
type Actor struct {
	ID        string `json:"id"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	SessionID string `json:"sessionID"`
}

// SystemActor is used for mutations triggered by the application itself (CLI, jobs).
var SystemActor = Actor{ID: "system", IPAddress: "127.0.0.1", UserAgent: "ledgerctl"}

// DateLayout is the canonical calendar date format used in hashed payloads.
const DateLayout = "2006-01-02"
