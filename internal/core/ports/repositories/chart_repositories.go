package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// ChartReader is the read-only view of the chart of accounts, the journal
// registry and the fiscal calendar. All three are maintained elsewhere.
type ChartReader interface {
	// FindAccount returns an active account by code, or ErrNotFound.
	FindAccount(ctx context.Context, code string) (*domain.ChartAccount, error)

	// FindJournal returns an active journal by code, or ErrNotFound.
	FindJournal(ctx context.Context, code string) (*domain.LedgerJournal, error)

	// FindOpenPeriod returns the open fiscal period covering date, or ErrNotFound.
	FindOpenPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)
}
