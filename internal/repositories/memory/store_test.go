package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

func entry(id string, number int64, date time.Time, validated bool) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     id,
		JournalCode: "VT",
		EntryNumber: number,
		EntryDate:   date,
		Source:      domain.DocumentRef{Type: domain.DocumentTypeInvoice, ID: "src-" + id},
		FiscalYear:  date.Year(),
		Validated:   validated,
		Lines: []domain.LedgerLine{
			{LineOrder: 2, AccountCode: "701000"},
			{LineOrder: 1, AccountCode: "411000"},
		},
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		n, err := tx.NextEntryNumber(ctx, "VT")
		require.NoError(t, err)
		require.NoError(t, tx.InsertEntry(ctx, entry("e1", n, time.Now(), false)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindEntryByID(ctx, "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		n, err := tx.NextEntryNumber(ctx, "VT")
		assert.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)
}

func TestInsertEntryUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		require.NoError(t, tx.InsertEntry(ctx, entry("e1", 1, now, false)))

		dupNumber := entry("e2", 1, now, false)
		assert.ErrorIs(t, tx.InsertEntry(ctx, dupNumber), apperrors.ErrConcurrency)

		dupSource := entry("e3", 2, now, false)
		dupSource.Source.ID = "src-e1"
		assert.ErrorIs(t, tx.InsertEntry(ctx, dupSource), apperrors.ErrDuplicate)
		return nil
	})
	require.NoError(t, err)
}

func TestChainAppendsRequireTail(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		tail, err := tx.LockChainTail(ctx, domain.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, portsrepo.ChainTail{}, tail)

		require.NoError(t, tx.InsertIntegrityRecord(ctx, domain.IntegrityRecord{
			RecordID: "r1", DocumentType: domain.DocumentTypeInvoice, ChainPosition: 1, RecordHash: "h1",
		}))
		forked := domain.IntegrityRecord{RecordID: "r2", DocumentType: domain.DocumentTypeInvoice, ChainPosition: 1}
		assert.ErrorIs(t, tx.InsertIntegrityRecord(ctx, forked), apperrors.ErrConcurrency)

		stale := domain.AuditRecord{Sequence: 2}
		assert.ErrorIs(t, tx.InsertAuditRecord(ctx, stale), apperrors.ErrIntegrity)
		require.NoError(t, tx.InsertAuditRecord(ctx, domain.AuditRecord{Sequence: 1, Hash: "a1"}))

		tail, err = tx.LockAuditTail(ctx)
		require.NoError(t, err)
		assert.Equal(t, portsrepo.ChainTail{LastPosition: 1, LastHash: "a1"}, tail)
		return nil
	})
	require.NoError(t, err)

	chain, err := s.ListIntegrityChain(ctx, domain.DocumentTypeInvoice)
	require.NoError(t, err)
	assert.Len(t, chain, 1)
}

func TestListValidatedEntriesOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		for _, e := range []domain.LedgerEntry{
			entry("late", 3, d(20), true),
			entry("early", 2, d(5), true),
			entry("draft", 1, d(6), false),
			entry("same-day", 1, d(5), true),
		} {
			if err := tx.InsertEntry(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	// "same-day" reuses number 1 of the "draft" entry.
	require.ErrorIs(t, err, apperrors.ErrConcurrency)

	err = s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		for _, e := range []domain.LedgerEntry{
			entry("late", 4, d(20), true),
			entry("early", 3, d(5), true),
			entry("draft", 1, d(6), false),
			entry("same-day", 2, d(5), true),
		} {
			if err := tx.InsertEntry(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	got, err := s.ListValidatedEntries(ctx, portsrepo.EntryFilter{PeriodStart: d(1), PeriodEnd: d(31)})
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.EntryID)
		assert.Equal(t, 1, e.Lines[0].LineOrder)
	}
	assert.Equal(t, []string{"same-day", "early", "late"}, ids)

	got, err = s.ListValidatedEntries(ctx, portsrepo.EntryFilter{PeriodStart: d(6), PeriodEnd: d(19)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteEntryOnlyWhileUnvalidated(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		require.NoError(t, tx.InsertEntry(ctx, entry("draft", 1, now, false)))
		require.NoError(t, tx.InsertEntry(ctx, entry("final", 2, now, true)))
		assert.NoError(t, tx.DeleteEntry(ctx, "draft"))
		assert.ErrorIs(t, tx.DeleteEntry(ctx, "final"), apperrors.ErrNotFound)
		assert.ErrorIs(t, tx.MarkEntryValidated(ctx, "final", now, "u"), apperrors.ErrAlreadyValidated)
		return nil
	})
	require.NoError(t, err)
}
