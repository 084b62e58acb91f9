package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// EntryFilter selects ledger entries for a regulatory export.
type EntryFilter struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	FiscalYear  *int
}

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line order.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListValidatedEntries returns validated entries with their lines, ordered by
	// entry date, entry number and line order, read from one consistent snapshot.
	ListValidatedEntries(ctx context.Context, filter EntryFilter) ([]domain.LedgerEntry, error)
}

// LedgerTxWriter defines the ledger writes that must run inside a Tx.
type LedgerTxWriter interface {
	// NextEntryNumber increments and returns the journal sequence. The journal
	// sequence row stays locked until the transaction ends.
	NextEntryNumber(ctx context.Context, journalCode string) (int64, error)

	// InsertEntry persists an entry and all its lines.
	InsertEntry(ctx context.Context, entry domain.LedgerEntry) error

	// FindEntryBySource returns the entry posted from a source document, or ErrNotFound.
	FindEntryBySource(ctx context.Context, source domain.DocumentRef) (*domain.LedgerEntry, error)

	// FindEntryForUpdate loads an entry with its lines and locks it.
	FindEntryForUpdate(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// DeleteEntry removes an unvalidated entry; lines are removed with it.
	DeleteEntry(ctx context.Context, entryID string) error

	// MarkEntryValidated sets the validated flag and validation date once.
	MarkEntryValidated(ctx context.Context, entryID string, validatedAt time.Time, validatedBy string) error
}
