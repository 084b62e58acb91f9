package domain

import (
	"time"

	"github.com/SscSPs/ledger_integrity/internal/utils/canonical"
)

// VerificationStatus is the cached outcome of the last verification of an
// IntegrityRecord. It is the only mutable part of a record.
type VerificationStatus string

const (
	VerificationUnverified  VerificationStatus = "unverified"
	VerificationValid       VerificationStatus = "valid"
	VerificationCompromised VerificationStatus = "compromised"
)

// Algorithm identifiers recorded in compliance metadata.
const (
	HashAlgorithmSHA256       = "SHA-256"
	SignatureAlgorithmRSA     = "RSA-SHA256-PKCS1v15"
	CanonicalizationVersionV1 = "sorted-json/v1"
)

// Names of the verification checks.
const (
	IntegrityCheckHash      = "hash_integrity"
	IntegrityCheckSignature = "signature_valid"
	IntegrityCheckChain     = "chain_integrity"
	IntegrityCheckTimestamp = "timestamp_valid"
)

// ComplianceMetadata describes how a record was produced so it can be
// re-verified without access to this code base.
type ComplianceMetadata struct {
	HashAlgorithm           string `json:"hashAlgorithm"`
	SignatureAlgorithm      string `json:"signatureAlgorithm"`
	CanonicalizationVersion string `json:"canonicalizationVersion"`
	KeyFingerprint          string `json:"keyFingerprint"`
	DocumentVersion         int    `json:"documentVersion"`
	SealedBy                string `json:"sealedBy"`
}

// IntegrityRecord is one link of a per-document-type hash chain.
type IntegrityRecord struct {
	RecordID       string             `json:"recordID"`
	DocumentType   DocumentType       `json:"documentType"`
	DocumentID     string             `json:"documentID"`
	DocumentNumber string             `json:"documentNumber"`
	DocumentHash   string             `json:"documentHash"`
	PreviousHash   string             `json:"previousHash"` // empty for the first record of a type
	RecordHash     string             `json:"recordHash"`
	Signature      string             `json:"signature"` // base64
	ChainPosition  int64              `json:"chainPosition"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	IPAddress      string             `json:"ipAddress"`
	UserAgent      string             `json:"userAgent"`
	Metadata       ComplianceMetadata `json:"metadata"`
	Status         VerificationStatus `json:"status"`
	LastVerifiedAt *time.Time         `json:"lastVerifiedAt,omitempty"`
}

// SignaturePayload returns the bytes that are signed: documentHash ‖ previousHash.
func SignaturePayload(documentHash, previousHash string) []byte {
	return []byte(documentHash + previousHash)
}

// ComputeRecordHash returns SHA-256(documentHash ‖ previousHash), the value the
// next record of the same type points to.
func ComputeRecordHash(documentHash, previousHash string) string {
	return canonical.SHA256Hex(SignaturePayload(documentHash, previousHash))
}

// ComputeDocumentHash canonicalizes the document fields and hashes them.
func ComputeDocumentHash(doc SealableDocument) (string, error) {
	fields, err := doc.CanonicalFields()
	if err != nil {
		return "", err
	}
	return canonical.Hash(fields)
}

// IntegrityChecks holds the four verification checks of a record.
type IntegrityChecks struct {
	HashIntegrity  bool `json:"hash_integrity"`
	SignatureValid bool `json:"signature_valid"`
	ChainIntegrity bool `json:"chain_integrity"`
	TimestampValid bool `json:"timestamp_valid"`
}

// Valid reports whether every check passed.
func (c IntegrityChecks) Valid() bool {
	return c.HashIntegrity && c.SignatureValid && c.ChainIntegrity && c.TimestampValid
}

// Failed lists the names of the checks that did not pass.
func (c IntegrityChecks) Failed() []string {
	var failed []string
	if !c.HashIntegrity {
		failed = append(failed, IntegrityCheckHash)
	}
	if !c.SignatureValid {
		failed = append(failed, IntegrityCheckSignature)
	}
	if !c.ChainIntegrity {
		failed = append(failed, IntegrityCheckChain)
	}
	if !c.TimestampValid {
		failed = append(failed, IntegrityCheckTimestamp)
	}
	return failed
}

// IntegrityVerification is the result of verifying one sealed document.
type IntegrityVerification struct {
	Record     IntegrityRecord `json:"record"`
	Valid      bool            `json:"valid"`
	Checks     IntegrityChecks `json:"checks"`
	VerifiedAt time.Time       `json:"verifiedAt"`
}

// ChainBreak describes one record of a per-type chain that failed verification.
type ChainBreak struct {
	ChainPosition int64    `json:"chainPosition"`
	RecordID      string   `json:"recordID"`
	DocumentID    string   `json:"documentID"`
	FailedChecks  []string `json:"failedChecks"`
	Expected      string   `json:"expected,omitempty"`
	Actual        string   `json:"actual,omitempty"`
}

// ChainVerification summarizes a walk over a whole per-type chain.
type ChainVerification struct {
	DocumentType DocumentType `json:"documentType"`
	RecordCount  int          `json:"recordCount"`
	Valid        bool         `json:"valid"`
	Breaks       []ChainBreak `json:"breaks"`
	VerifiedAt   time.Time    `json:"verifiedAt"`
}
