package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore implements portsrepo.Store on PostgreSQL. Chain heads and journal
// sequences are single rows locked for the length of a transaction, and the
// unique constraints behind them turn a lost race into ErrConcurrency.
type PgxStore struct {
	BaseRepository
	*PgxJournalRepository
	*PgxIntegrityRepository
	*PgxAuditRepository
}

func newPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{
		BaseRepository:         BaseRepository{Pool: pool},
		PgxJournalRepository:   newPgxJournalRepository(pool),
		PgxIntegrityRepository: newPgxIntegrityRepository(pool),
		PgxAuditRepository:     newPgxAuditRepository(pool),
	}
}

var _ portsrepo.Store = (*PgxStore)(nil)

// RunInTx runs fn in a READ COMMITTED transaction. Ordering between writers
// comes from the row locks taken by NextEntryNumber, LockChainTail and
// LockAuditTail.
func (s *PgxStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	tx, err := s.Begin(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx)

	if err := fn(ctx, &pgxTx{tx: tx, store: s}); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// pgxTx is the write side handed to RunInTx callbacks.
type pgxTx struct {
	tx    pgx.Tx
	store *PgxStore
}

var _ portsrepo.Tx = (*pgxTx)(nil)

func (t *pgxTx) NextEntryNumber(ctx context.Context, journalCode string) (int64, error) {
	return t.store.nextEntryNumber(ctx, t.tx, journalCode)
}

func (t *pgxTx) InsertEntry(ctx context.Context, entry domain.LedgerEntry) error {
	return t.store.insertEntry(ctx, t.tx, entry)
}

func (t *pgxTx) FindEntryBySource(ctx context.Context, source domain.DocumentRef) (*domain.LedgerEntry, error) {
	return t.store.findEntry(ctx, t.tx, `WHERE source_type = $1 AND source_id = $2`, string(source.Type), source.ID)
}

func (t *pgxTx) FindEntryForUpdate(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return t.store.findEntry(ctx, t.tx, `WHERE entry_id = $1 FOR UPDATE`, entryID)
}

func (t *pgxTx) DeleteEntry(ctx context.Context, entryID string) error {
	return t.store.deleteEntry(ctx, t.tx, entryID)
}

func (t *pgxTx) MarkEntryValidated(ctx context.Context, entryID string, validatedAt time.Time, validatedBy string) error {
	return t.store.markValidated(ctx, t.tx, entryID, validatedAt, validatedBy)
}

func (t *pgxTx) LockChainTail(ctx context.Context, docType domain.DocumentType) (portsrepo.ChainTail, error) {
	return t.store.lockChainTail(ctx, t.tx, docType)
}

func (t *pgxTx) InsertIntegrityRecord(ctx context.Context, record domain.IntegrityRecord) error {
	return t.store.PgxIntegrityRepository.insertRecord(ctx, t.tx, record)
}

func (t *pgxTx) LockAuditTail(ctx context.Context) (portsrepo.ChainTail, error) {
	return t.store.lockAuditTail(ctx, t.tx)
}

func (t *pgxTx) InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	return t.store.PgxAuditRepository.insertRecord(ctx, t.tx, record)
}
