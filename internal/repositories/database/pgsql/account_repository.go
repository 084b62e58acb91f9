package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_integrity/internal/models"
	"github.com/SscSPs/ledger_integrity/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxChartRepository reads the chart of accounts, the journal registry and
// the fiscal calendar. Those tables are maintained by another system.
type PgxChartRepository struct {
	BaseRepository
}

func newPgxChartRepository(pool *pgxpool.Pool) *PgxChartRepository {
	return &PgxChartRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ChartReader = (*PgxChartRepository)(nil)

// FindAccount returns an active account by code.
func (r *PgxChartRepository) FindAccount(ctx context.Context, code string) (*domain.ChartAccount, error) {
	var m models.ChartAccount
	err := r.Pool.QueryRow(ctx, `
		SELECT code, label, is_active
		FROM chart_accounts
		WHERE code = $1 AND is_active;
	`, code).Scan(&m.Code, &m.Label, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + code)
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+code, err)
	}
	acc := mapping.ToDomainChartAccount(m)
	return &acc, nil
}

// FindJournal returns an active journal by code.
func (r *PgxChartRepository) FindJournal(ctx context.Context, code string) (*domain.LedgerJournal, error) {
	var m models.Journal
	err := r.Pool.QueryRow(ctx, `
		SELECT code, label, kind, is_active
		FROM journals
		WHERE code = $1 AND is_active;
	`, code).Scan(&m.Code, &m.Label, &m.Kind, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal " + code)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal "+code, err)
	}
	j := mapping.ToDomainJournal(m)
	return &j, nil
}

// FindOpenPeriod returns the open period covering the calendar date of date.
func (r *PgxChartRepository) FindOpenPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	var m models.FiscalPeriod
	day := domain.CalendarDate(date)
	err := r.Pool.QueryRow(ctx, `
		SELECT period_id, fiscal_year, start_date, end_date, closed
		FROM fiscal_periods
		WHERE $1::date BETWEEN start_date AND end_date AND NOT closed
		ORDER BY start_date DESC
		LIMIT 1;
	`, day).Scan(&m.PeriodID, &m.FiscalYear, &m.StartDate, &m.EndDate, &m.Closed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("open fiscal period on " + day.Format(domain.DateLayout))
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal period", err)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}
