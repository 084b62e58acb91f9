package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/utils/accounting"
)

// DefaultSalesJournal is the journal invoices are posted to.
const DefaultSalesJournal = "VT"

const entityLedgerEntry = "ledger_entry"

// postingService turns commercial documents into ledger entries.
type postingService struct {
	BaseService
	store     portsrepo.Store
	chart     portsrepo.ChartReader
	integrity portssvc.IntegritySealerSvc
	audit     portssvc.AuditWriterSvc

	salesJournal string
	scheme       accounting.SalesScheme
}

// PostingOption is a functional option for configuring the posting service
type PostingOption func(*postingService)

// WithSalesJournal sets the journal code invoices are posted to.
func WithSalesJournal(code string) PostingOption {
	return func(s *postingService) {
		if code != "" {
			s.salesJournal = code
		}
	}
}

// WithSalesScheme replaces the account mapping used for invoices.
func WithSalesScheme(scheme accounting.SalesScheme) PostingOption {
	return func(s *postingService) {
		s.scheme = scheme
	}
}

// WithPostingClock overrides the time source.
func WithPostingClock(c Clock) PostingOption {
	return func(s *postingService) {
		s.Clock = c
	}
}

// NewPostingService creates the posting engine.
func NewPostingService(
	store portsrepo.Store,
	chart portsrepo.ChartReader,
	integrity portssvc.IntegritySealerSvc,
	audit portssvc.AuditWriterSvc,
	options ...PostingOption,
) portssvc.PostingSvcFacade {
	svc := &postingService{
		BaseService:  newBaseService(),
		store:        store,
		chart:        chart,
		integrity:    integrity,
		audit:        audit,
		salesJournal: DefaultSalesJournal,
		scheme:       accounting.NewSalesScheme("411000", "701900", accounting.DefaultRateAccounts()),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostInvoice builds, checks and persists the entry of an invoice or credit
// note. Nothing is written unless the entry balances and every account,
// journal and period resolves.
func (s *postingService) PostInvoice(ctx context.Context, inv domain.Invoice, actor domain.Actor) (*domain.LedgerEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.Number))

	if err := s.validateInvoice(inv); err != nil {
		return nil, err
	}

	period, err := s.chart.FindOpenPeriod(ctx, inv.IssueDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNoOpenPeriod, inv.IssueDate.Format(domain.DateLayout))
		}
		return nil, err
	}
	if period.Closed || !period.Covers(inv.IssueDate) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoOpenPeriod, inv.IssueDate.Format(domain.DateLayout))
	}

	journal, err := s.resolveJournal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAccounts(ctx, inv); err != nil {
		return nil, err
	}

	_, _, total := inv.Totals()
	if inv.DeclaredTotal != nil && !domain.RoundMoney(*inv.DeclaredTotal).Equal(total) {
		return nil, fmt.Errorf("%w: declared total %s differs from computed total %s",
			apperrors.ErrValidation, domain.FormatMoney(*inv.DeclaredTotal), domain.FormatMoney(total))
	}

	label := invoiceLabel(inv)
	lines, err := s.scheme.Lines(inv, label)
	if err != nil {
		if errors.Is(err, accounting.ErrUnmappedRate) {
			return nil, apperrors.NewConfigurationError("%v", err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.Now()
	entry := domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		JournalCode:    journal.Code,
		EntryDate:      domain.CalendarDate(inv.IssueDate),
		PieceDate:      domain.CalendarDate(inv.IssueDate),
		Source:         inv.DocumentRef(),
		Label:          label,
		FiscalPeriodID: period.PeriodID,
		FiscalYear:     period.FiscalYear,
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ID,
		},
	}
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
	}
	if err := checkEntry(entry); err != nil {
		logger.Warn("Refusing to post unbalanced entry", slog.String("error", err.Error()))
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		if _, err := tx.FindEntryBySource(ctx, entry.Source); err == nil {
			return fmt.Errorf("%w: %s %s is already posted", apperrors.ErrDuplicate, entry.Source.Type, entry.Source.Number)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		number, err := tx.NextEntryNumber(ctx, entry.JournalCode)
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}
		entry.EntryNumber = number

		if err := tx.InsertEntry(ctx, entry); err != nil {
			return err
		}
		if _, err := s.integrity.SealInTx(ctx, tx, inv, actor); err != nil {
			return err
		}
		_, err = s.audit.LogChangeInTx(ctx, tx, domain.AuditChange{
			EntityType: entityLedgerEntry,
			EntityID:   entry.EntryID,
			Action:     domain.AuditCreate,
			After:      entry.Snapshot(),
		}, actor)
		return err
	})
	if err != nil {
		logger.Error("Failed to post invoice", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Invoice posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("journal_code", entry.JournalCode),
		slog.Int64("entry_number", entry.EntryNumber))
	return &entry, nil
}

func (s *postingService) validateInvoice(inv domain.Invoice) error {
	if err := s.Validator.Struct(inv); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	for _, l := range inv.Lines {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	return nil
}

func (s *postingService) resolveJournal(ctx context.Context) (*domain.LedgerJournal, error) {
	journal, err := s.chart.FindJournal(ctx, s.salesJournal)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConfigurationError("sales journal %q is not registered", s.salesJournal)
		}
		return nil, err
	}
	if !journal.IsActive {
		return nil, apperrors.NewConfigurationError("sales journal %q is inactive", s.salesJournal)
	}
	return journal, nil
}

func (s *postingService) resolveAccounts(ctx context.Context, inv domain.Invoice) error {
	codes, err := s.scheme.AccountCodes(inv)
	if err != nil {
		return apperrors.NewConfigurationError("%v", err)
	}
	for _, code := range codes {
		account, err := s.chart.FindAccount(ctx, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewConfigurationError("account %s is not in the chart of accounts", code)
			}
			return err
		}
		if !account.IsActive {
			return apperrors.NewConfigurationError("account %s is inactive", code)
		}
	}
	return nil
}

func checkEntry(entry domain.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		if errors.Is(err, domain.ErrEntryNotBalanced) {
			return fmt.Errorf("%w: %v", apperrors.ErrUnbalancedEntry, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func invoiceLabel(inv domain.Invoice) string {
	kind := "Invoice"
	if inv.Kind == domain.InvoiceKindCreditNote {
		kind = "Credit note"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", kind, inv.Number, inv.CounterpartyName))
}

// CancelPosting deletes an unvalidated entry and records why.
func (s *postingService) CancelPosting(ctx context.Context, entryID string, justification string, actor domain.Actor) error {
	justification = strings.TrimSpace(justification)
	if justification == "" {
		return fmt.Errorf("%w: a justification is required to cancel a posting", apperrors.ErrValidation)
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		entry, err := tx.FindEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Validated {
			return fmt.Errorf("%w: entry %s-%d", apperrors.ErrAlreadyValidated, entry.JournalCode, entry.EntryNumber)
		}
		if err := tx.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		_, err = s.audit.LogChangeInTx(ctx, tx, domain.AuditChange{
			EntityType:    entityLedgerEntry,
			EntityID:      entryID,
			Action:        domain.AuditDelete,
			Before:        entry.Snapshot(),
			Justification: justification,
		}, actor)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel posting", slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Posting cancelled", slog.String("entry_id", entryID), slog.String("actor_id", actor.ID))
	return nil
}

// ValidateEntry re-checks the balance, freezes the entry and seals it.
func (s *postingService) ValidateEntry(ctx context.Context, entryID string, actor domain.Actor) (*domain.LedgerEntry, error) {
	var validated *domain.LedgerEntry
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		entry, err := tx.FindEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Validated {
			return fmt.Errorf("%w: entry %s-%d", apperrors.ErrAlreadyValidated, entry.JournalCode, entry.EntryNumber)
		}
		if err := checkEntry(*entry); err != nil {
			return err
		}

		before := entry.Snapshot()
		now := s.Now()
		if err := tx.MarkEntryValidated(ctx, entryID, now, actor.ID); err != nil {
			return err
		}
		entry.Validated = true
		entry.ValidatedAt = &now
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = actor.ID

		if _, err := s.integrity.SealInTx(ctx, tx, *entry, actor); err != nil {
			return err
		}
		if _, err := s.audit.LogChangeInTx(ctx, tx, domain.AuditChange{
			EntityType: entityLedgerEntry,
			EntityID:   entryID,
			Action:     domain.AuditUpdate,
			Before:     before,
			After:      entry.Snapshot(),
		}, actor); err != nil {
			return err
		}
		validated = entry
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to validate entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Entry validated", slog.String("entry_id", entryID))
	return validated, nil
}

// GetEntry retrieves an entry with its lines.
func (s *postingService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return s.store.FindEntryByID(ctx, entryID)
}
