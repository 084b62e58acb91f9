package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// ExportRequest selects the entries of a regulatory export.
type ExportRequest struct {
	PeriodStart string `json:"periodStart" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"periodEnd" binding:"required,datetime=2006-01-02"`
	FiscalYear  *int   `json:"fiscalYear,omitempty"`
	TaxID       string `json:"taxID" binding:"required,alphanum,max=20"`
}

// ToDomain converts the request into a domain ExportRequest.
func (r ExportRequest) ToDomain() (domain.ExportRequest, error) {
	start, err := time.Parse(DateLayout, r.PeriodStart)
	if err != nil {
		return domain.ExportRequest{}, fmt.Errorf("invalid periodStart: %w", err)
	}
	end, err := time.Parse(DateLayout, r.PeriodEnd)
	if err != nil {
		return domain.ExportRequest{}, fmt.Errorf("invalid periodEnd: %w", err)
	}
	return domain.ExportRequest{PeriodStart: start, PeriodEnd: end, FiscalYear: r.FiscalYear, TaxID: r.TaxID}, nil
}

// ExportRejectedResponse lists every violation that blocked a file.
type ExportRejectedResponse struct {
	Error      string                   `json:"error"`
	Violations []domain.ExportViolation `json:"violations"`
}
