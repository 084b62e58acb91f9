package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_integrity/internal/models"
	"github.com/SscSPs/ledger_integrity/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `
	entry_id, journal_code, entry_number, entry_date, piece_date,
	source_type, source_id, source_number, label, fiscal_period_id, fiscal_year,
	validated, validated_at, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `
	line_id, entry_id, line_order, account_code, debit, credit, label,
	subsidiary_account, subsidiary_label, due_date, reconciliation_code, reconciled_at,
	foreign_amount, foreign_currency`

// PgxJournalRepository stores ledger entries, their lines and the per-journal
// numbering sequences.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindEntryByID retrieves an entry and its lines outside any transaction.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return r.findEntry(ctx, r.Pool, `WHERE entry_id = $1`, entryID)
}

// ListValidatedEntries reads entries and lines in one REPEATABLE READ,
// read-only transaction so the export sees a single snapshot.
func (r *PgxJournalRepository) ListValidatedEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE validated
		  AND entry_date BETWEEN $1::date AND $2::date
		  AND ($3::int IS NULL OR fiscal_year = $3)
		ORDER BY entry_date, journal_code, entry_number;
	`
	var fiscalYear *int
	if filter.FiscalYear != nil {
		fy := *filter.FiscalYear
		fiscalYear = &fy
	}
	rows, err := tx.Query(ctx, query, domain.CalendarDate(filter.PeriodStart), domain.CalendarDate(filter.PeriodEnd), fiscalYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list validated entries", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []domain.LedgerEntry{}, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	linesByEntry, err := r.loadLines(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		out[i] = mapping.ToDomainLedgerEntry(e, linesByEntry[e.EntryID])
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgxJournalRepository) nextEntryNumber(ctx context.Context, q querier, journalCode string) (int64, error) {
	query := `
		INSERT INTO journal_sequences (journal_code, last_number)
		VALUES ($1, 1)
		ON CONFLICT (journal_code) DO UPDATE SET last_number = journal_sequences.last_number + 1
		RETURNING last_number;
	`
	var n int64
	if err := q.QueryRow(ctx, query, journalCode).Scan(&n); err != nil {
		return 0, mapPgError(err, "failed to advance sequence of journal "+journalCode)
	}
	return n, nil
}

func (r *PgxJournalRepository) insertEntry(ctx context.Context, q querier, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	entryQuery := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := q.Exec(ctx, entryQuery,
		m.EntryID, m.JournalCode, m.EntryNumber, m.EntryDate, m.PieceDate,
		m.SourceType, m.SourceID, m.SourceNumber, m.Label, m.FiscalPeriodID, m.FiscalYear,
		m.Validated, m.ValidatedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert ledger entry "+m.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO ledger_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, line := range entry.Lines {
		l := mapping.ToModelLedgerLine(line)
		batch.Queue(lineQuery,
			l.LineID, l.EntryID, l.LineOrder, l.AccountCode, l.Debit, l.Credit, l.Label,
			l.SubsidiaryAccount, l.SubsidiaryLabel, l.DueDate, l.ReconciliationCode, l.ReconciledAt,
			l.ForeignAmount, l.ForeignCurrency,
		)
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to insert lines of ledger entry "+m.EntryID)
	}
	return nil
}

func (r *PgxJournalRepository) deleteEntry(ctx context.Context, q querier, entryID string) error {
	tag, err := q.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = $1 AND NOT validated;`, entryID)
	if err != nil {
		return mapPgError(err, "failed to delete ledger entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("unvalidated ledger entry " + entryID)
	}
	return nil
}

func (r *PgxJournalRepository) markValidated(ctx context.Context, q querier, entryID string, validatedAt time.Time, validatedBy string) error {
	query := `
		UPDATE ledger_entries
		SET validated = TRUE, validated_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND NOT validated;
	`
	tag, err := q.Exec(ctx, query, entryID, validatedAt, validatedBy)
	if err != nil {
		return mapPgError(err, "failed to validate ledger entry "+entryID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
		return apperrors.NewAppError(500, "failed to look up ledger entry "+entryID, err)
	}
	if exists {
		return apperrors.ErrAlreadyValidated
	}
	return apperrors.NewNotFoundError("ledger entry " + entryID)
}

// findEntry loads one entry matching where, then its lines. where may end
// with a locking clause.
func (r *PgxJournalRepository) findEntry(ctx context.Context, q querier, where string, args ...any) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries ` + where
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entry", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %v", args))
	}
	lines, err := r.loadLines(ctx, q, []string{entries[0].EntryID})
	if err != nil {
		return nil, err
	}
	e := mapping.ToDomainLedgerEntry(entries[0], lines[entries[0].EntryID])
	return &e, nil
}

func (r *PgxJournalRepository) loadLines(ctx context.Context, q querier, entryIDs []string) (map[string][]models.LedgerLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM ledger_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_order;
	`
	rows, err := q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines", err)
	}
	defer rows.Close()

	out := make(map[string][]models.LedgerLine, len(entryIDs))
	for rows.Next() {
		var l models.LedgerLine
		if err := rows.Scan(
			&l.LineID, &l.EntryID, &l.LineOrder, &l.AccountCode, &l.Debit, &l.Credit, &l.Label,
			&l.SubsidiaryAccount, &l.SubsidiaryLabel, &l.DueDate, &l.ReconciliationCode, &l.ReconciledAt,
			&l.ForeignAmount, &l.ForeignCurrency,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line", err)
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger lines", err)
	}
	return out, nil
}

func scanEntries(rows pgx.Rows) ([]models.LedgerEntry, error) {
	defer rows.Close()
	var out []models.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID, &m.JournalCode, &m.EntryNumber, &m.EntryDate, &m.PieceDate,
			&m.SourceType, &m.SourceID, &m.SourceNumber, &m.Label, &m.FiscalPeriodID, &m.FiscalYear,
			&m.Validated, &m.ValidatedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "error iterating ledger entries", err)
	}
	return out, nil
}
