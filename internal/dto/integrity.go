package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// SealQuoteRequest carries a quote to seal. Quotes are sealed but never posted.
type SealQuoteRequest struct {
	QuoteID        string               `json:"quoteID" binding:"required"`
	Number         string               `json:"number" binding:"required"`
	IssueDate      string               `json:"issueDate" binding:"required,datetime=2006-01-02"`
	ValidUntil     string               `json:"validUntil" binding:"required,datetime=2006-01-02"`
	CounterpartyID int64                `json:"counterpartyID" binding:"required,gt=0"`
	Status         string               `json:"status"`
	Lines          []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Version        int                  `json:"version"`
}

// ToDomain converts the request into a domain Quote.
func (r SealQuoteRequest) ToDomain() (domain.Quote, error) {
	issue, err := time.Parse(DateLayout, r.IssueDate)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("invalid issueDate: %w", err)
	}
	validUntil, err := time.Parse(DateLayout, r.ValidUntil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("invalid validUntil: %w", err)
	}
	return domain.Quote{
		QuoteID:        r.QuoteID,
		Number:         r.Number,
		IssueDate:      issue,
		ValidUntil:     validUntil,
		CounterpartyID: r.CounterpartyID,
		Status:         r.Status,
		Lines:          toDomainLines(r.Lines),
		Version:        r.Version,
	}, nil
}

// VerifyChainsResponse lists the outcome of every per-type chain walk.
type VerifyChainsResponse struct {
	Valid  bool                       `json:"valid"`
	Chains []domain.ChainVerification `json:"chains"`
}

// ToVerifyChainsResponse aggregates per-type results.
func ToVerifyChainsResponse(chains []domain.ChainVerification) VerifyChainsResponse {
	valid := true
	for _, c := range chains {
		valid = valid && c.Valid
	}
	return VerifyChainsResponse{Valid: valid, Chains: chains}
}
