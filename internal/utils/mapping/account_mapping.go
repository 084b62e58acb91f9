package mapping

import (
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/SscSPs/ledger_integrity/internal/models"
)

// ToDomainChartAccount converts a model ChartAccount to a domain ChartAccount
func ToDomainChartAccount(m models.ChartAccount) domain.ChartAccount {
	return domain.ChartAccount{
		Code:     m.Code,
		Label:    m.Label,
		IsActive: m.IsActive,
	}
}

// ToDomainJournal converts a model Journal to a domain LedgerJournal
func ToDomainJournal(m models.Journal) domain.LedgerJournal {
	return domain.LedgerJournal{
		Code:     m.Code,
		Label:    m.Label,
		Kind:     domain.JournalKind(m.Kind),
		IsActive: m.IsActive,
	}
}

// ToDomainFiscalPeriod converts a model FiscalPeriod to a domain FiscalPeriod
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:   m.PeriodID,
		FiscalYear: m.FiscalYear,
		StartDate:  domain.CalendarDate(m.StartDate),
		EndDate:    domain.CalendarDate(m.EndDate),
		Closed:     m.Closed,
	}
}
