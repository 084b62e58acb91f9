package services

import (
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/platform/config"
	"github.com/SscSPs/ledger_integrity/internal/utils/accounting"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// signer may be nil; sealing then fails with ErrConfiguration.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, signer portssvc.Signer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit comes first since every other service writes to it
	container.Audit = NewAuditService(
		repos.Store,
		WithRedactionMaxLength(cfg.AuditRedactionMaxLength),
		WithBusinessHours(cfg.BusinessHourStart, cfg.BusinessHourEnd, cfg.BusinessTimezone),
		WithWeekendFlagging(cfg.FlagWeekends),
		WithBulkDeleteRule(cfg.BulkDeleteThreshold, cfg.BulkDeleteWindow),
	)

	types := make([]domain.DocumentType, 0, len(cfg.SealedDocumentTypes))
	for _, t := range cfg.SealedDocumentTypes {
		types = append(types, domain.DocumentType(t))
	}
	container.Integrity = NewIntegrityService(
		repos.Store,
		signer,
		WithDocumentTypes(types...),
		WithTimestampBounds(cfg.IntegrityClockSkew, cfg.IntegrityMaxAge),
		WithAuditTrail(container.Audit),
	)

	container.Posting = NewPostingService(
		repos.Store,
		repos.Chart,
		container.Integrity,
		container.Audit,
		WithSalesJournal(cfg.SalesJournalCode),
		WithSalesScheme(SalesSchemeFromConfig(cfg)),
	)

	container.Export = NewExportService(repos.Store, repos.Chart, container.Audit)

	return container
}

// SalesSchemeFromConfig builds the invoice account mapping from configuration.
func SalesSchemeFromConfig(cfg *config.Config) accounting.SalesScheme {
	rates := make([]accounting.RateAccounts, 0, len(cfg.RateAccounts))
	for _, r := range cfg.RateAccounts {
		rates = append(rates, accounting.RateAccounts{Rate: r.Rate, RevenueAccount: r.RevenueAccount, TaxAccount: r.TaxAccount})
	}
	if len(rates) == 0 {
		rates = accounting.DefaultRateAccounts()
	}
	return accounting.NewSalesScheme(cfg.ReceivableAccount, cfg.ExemptRevenueAccount, rates)
}
