package mapping

import (
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/SscSPs/ledger_integrity/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
// Lines are mapped separately.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		JournalCode:    d.JournalCode,
		EntryNumber:    d.EntryNumber,
		EntryDate:      d.EntryDate,
		PieceDate:      d.PieceDate,
		SourceType:     string(d.Source.Type),
		SourceID:       d.Source.ID,
		SourceNumber:   d.Source.Number,
		Label:          d.Label,
		FiscalPeriodID: d.FiscalPeriodID,
		FiscalYear:     d.FiscalYear,
		Validated:      d.Validated,
		ValidatedAt:    nullTime(d.ValidatedAt),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry and its lines to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry, lines []models.LedgerLine) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     m.EntryID,
		JournalCode: m.JournalCode,
		EntryNumber: m.EntryNumber,
		EntryDate:   domain.CalendarDate(m.EntryDate),
		PieceDate:   domain.CalendarDate(m.PieceDate),
		Source: domain.DocumentRef{
			Type:   domain.DocumentType(m.SourceType),
			ID:     m.SourceID,
			Number: m.SourceNumber,
		},
		Label:          m.Label,
		FiscalPeriodID: m.FiscalPeriodID,
		FiscalYear:     m.FiscalYear,
		Validated:      m.Validated,
		ValidatedAt:    timePtr(m.ValidatedAt),
		Lines:          ToDomainLedgerLineSlice(lines),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	m := models.LedgerLine{
		LineID:             d.LineID,
		EntryID:            d.EntryID,
		LineOrder:          d.LineOrder,
		AccountCode:        d.AccountCode,
		Debit:              d.Debit,
		Credit:             d.Credit,
		Label:              d.Label,
		SubsidiaryAccount:  nullString(d.SubsidiaryAccount),
		SubsidiaryLabel:    nullString(d.SubsidiaryLabel),
		DueDate:            nullTime(d.DueDate),
		ReconciliationCode: nullString(d.ReconciliationCode),
		ReconciledAt:       nullTime(d.ReconciledAt),
		ForeignCurrency:    nullString(d.ForeignCurrency),
	}
	if d.ForeignAmount != nil {
		m.ForeignAmount = decimal.NewNullDecimal(*d.ForeignAmount)
	}
	return m
}

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	d := domain.LedgerLine{
		LineID:             m.LineID,
		EntryID:            m.EntryID,
		LineOrder:          m.LineOrder,
		AccountCode:        m.AccountCode,
		Debit:              m.Debit,
		Credit:             m.Credit,
		Label:              m.Label,
		SubsidiaryAccount:  m.SubsidiaryAccount.String,
		SubsidiaryLabel:    m.SubsidiaryLabel.String,
		DueDate:            timePtr(m.DueDate),
		ReconciliationCode: m.ReconciliationCode.String,
		ReconciledAt:       timePtr(m.ReconciledAt),
		ForeignCurrency:    m.ForeignCurrency.String,
	}
	if m.ForeignAmount.Valid {
		v := m.ForeignAmount.Decimal
		d.ForeignAmount = &v
	}
	return d
}

// ToDomainLedgerLineSlice converts a slice of model LedgerLines to domain LedgerLines
func ToDomainLedgerLineSlice(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerLine(m)
	}
	return ds
}
