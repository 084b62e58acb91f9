// Package memory is an in-process implementation of the ledger store. It
// serializes transactions with one lock and applies a transaction's writes
// only when its callback succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

type state struct {
	entries        map[string]domain.LedgerEntry
	sequences      map[string]int64
	integrity      []domain.IntegrityRecord
	integrityHeads map[domain.DocumentType]portsrepo.ChainTail
	audit          []domain.AuditRecord
	auditHead      portsrepo.ChainTail
}

func newState() *state {
	return &state{
		entries:        make(map[string]domain.LedgerEntry),
		sequences:      make(map[string]int64),
		integrityHeads: make(map[domain.DocumentType]portsrepo.ChainTail),
	}
}

func (s *state) clone() *state {
	c := &state{
		entries:        make(map[string]domain.LedgerEntry, len(s.entries)),
		sequences:      make(map[string]int64, len(s.sequences)),
		integrity:      append([]domain.IntegrityRecord(nil), s.integrity...),
		integrityHeads: make(map[domain.DocumentType]portsrepo.ChainTail, len(s.integrityHeads)),
		audit:          append([]domain.AuditRecord(nil), s.audit...),
		auditHead:      s.auditHead,
	}
	for k, v := range s.entries {
		c.entries[k] = copyEntry(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.integrityHeads {
		c.integrityHeads[k] = v
	}
	return c
}

func copyEntry(e domain.LedgerEntry) domain.LedgerEntry {
	e.Lines = append([]domain.LedgerLine(nil), e.Lines...)
	return e
}

// Store implements portsrepo.Store in memory.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.Store = (*Store)(nil)

// RunInTx runs fn against a private copy of the state and publishes the copy
// when fn returns nil. Only one transaction runs at a time.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &memTx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// --- LedgerReader ---

func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.state.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry " + entryID)
	}
	out := sortedLines(copyEntry(e))
	return &out, nil
}

func (s *Store) ListValidatedEntries(_ context.Context, filter portsrepo.EntryFilter) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := domain.CalendarDate(filter.PeriodStart), domain.CalendarDate(filter.PeriodEnd)
	var out []domain.LedgerEntry
	for _, e := range s.state.entries {
		if !e.Validated {
			continue
		}
		d := domain.CalendarDate(e.EntryDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		if filter.FiscalYear != nil && e.FiscalYear != *filter.FiscalYear {
			continue
		}
		out = append(out, sortedLines(copyEntry(e)))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		if out[i].JournalCode != out[j].JournalCode {
			return out[i].JournalCode < out[j].JournalCode
		}
		return out[i].EntryNumber < out[j].EntryNumber
	})
	return out, nil
}

func sortedLines(e domain.LedgerEntry) domain.LedgerEntry {
	sort.Slice(e.Lines, func(i, j int) bool { return e.Lines[i].LineOrder < e.Lines[j].LineOrder })
	return e
}

// --- IntegrityReader ---

func (s *Store) FindLatestIntegrityRecord(_ context.Context, docType domain.DocumentType, documentID string) (*domain.IntegrityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.IntegrityRecord
	for i := range s.state.integrity {
		r := s.state.integrity[i]
		if r.DocumentType != docType || r.DocumentID != documentID {
			continue
		}
		if latest == nil || r.ChainPosition > latest.ChainPosition {
			latest = &r
		}
	}
	if latest == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("integrity record for %s %s", docType, documentID))
	}
	return latest, nil
}

func (s *Store) FindIntegrityRecordByPosition(_ context.Context, docType domain.DocumentType, position int64) (*domain.IntegrityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.integrity {
		if r.DocumentType == docType && r.ChainPosition == position {
			return &r, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("integrity record %s #%d", docType, position))
}

func (s *Store) ListIntegrityChain(_ context.Context, docType domain.DocumentType) ([]domain.IntegrityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.IntegrityRecord
	for _, r := range s.state.integrity {
		if r.DocumentType == docType {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainPosition < out[j].ChainPosition })
	return out, nil
}

// UpdateVerificationStatus implements portsrepo.IntegrityStatusWriter.
func (s *Store) UpdateVerificationStatus(_ context.Context, recordID string, status domain.VerificationStatus, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.integrity {
		if s.state.integrity[i].RecordID == recordID {
			at := verifiedAt
			s.state.integrity[i].Status = status
			s.state.integrity[i].LastVerifiedAt = &at
			return nil
		}
	}
	return apperrors.NewNotFoundError("integrity record " + recordID)
}

// --- AuditReader ---

func (s *Store) ListLatestAuditRecords(_ context.Context, limit int) ([]domain.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.state.audit
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]domain.AuditRecord(nil), all...), nil
}

func (s *Store) ListAuditRecordsSince(_ context.Context, since time.Time) ([]domain.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AuditRecord
	for _, r := range s.state.audit {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListAuditRecords(_ context.Context, limit int, beforeSequence *int64) ([]domain.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AuditRecord
	for i := len(s.state.audit) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.state.audit[i]
		if beforeSequence != nil && r.Sequence >= *beforeSequence {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// --- out-of-band changes, used to simulate tampering ---

// MutateAuditRecord applies fn to the stored record with the given sequence,
// bypassing the chain.
func (s *Store) MutateAuditRecord(sequence int64, fn func(*domain.AuditRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.audit {
		if s.state.audit[i].Sequence == sequence {
			fn(&s.state.audit[i])
			return true
		}
	}
	return false
}

// MutateIntegrityRecord applies fn to the record at a chain position.
func (s *Store) MutateIntegrityRecord(docType domain.DocumentType, position int64, fn func(*domain.IntegrityRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.integrity {
		r := &s.state.integrity[i]
		if r.DocumentType == docType && r.ChainPosition == position {
			fn(r)
			return true
		}
	}
	return false
}

// DeleteLine removes one line of an entry, validated or not.
func (s *Store) DeleteLine(entryID string, lineOrder int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.entries[entryID]
	if !ok {
		return false
	}
	for i, l := range e.Lines {
		if l.LineOrder == lineOrder {
			e.Lines = append(e.Lines[:i:i], e.Lines[i+1:]...)
			s.state.entries[entryID] = e
			return true
		}
	}
	return false
}

// memTx is the write side of a running transaction.
type memTx struct {
	state *state
}

var _ portsrepo.Tx = (*memTx)(nil)

func (t *memTx) NextEntryNumber(_ context.Context, journalCode string) (int64, error) {
	t.state.sequences[journalCode]++
	return t.state.sequences[journalCode], nil
}

func (t *memTx) InsertEntry(_ context.Context, entry domain.LedgerEntry) error {
	if _, ok := t.state.entries[entry.EntryID]; ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	for _, e := range t.state.entries {
		if e.JournalCode == entry.JournalCode && e.EntryNumber == entry.EntryNumber {
			return fmt.Errorf("%w: entry number %s-%d already used", apperrors.ErrConcurrency, entry.JournalCode, entry.EntryNumber)
		}
		if e.Source.Type == entry.Source.Type && e.Source.ID == entry.Source.ID {
			return fmt.Errorf("%w: %s %s is already posted", apperrors.ErrDuplicate, entry.Source.Type, entry.Source.ID)
		}
	}
	t.state.entries[entry.EntryID] = copyEntry(entry)
	return nil
}

func (t *memTx) FindEntryBySource(_ context.Context, source domain.DocumentRef) (*domain.LedgerEntry, error) {
	for _, e := range t.state.entries {
		if e.Source.Type == source.Type && e.Source.ID == source.ID {
			out := copyEntry(e)
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("entry for %s %s", source.Type, source.ID))
}

func (t *memTx) FindEntryForUpdate(_ context.Context, entryID string) (*domain.LedgerEntry, error) {
	e, ok := t.state.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry " + entryID)
	}
	out := sortedLines(copyEntry(e))
	return &out, nil
}

func (t *memTx) DeleteEntry(_ context.Context, entryID string) error {
	e, ok := t.state.entries[entryID]
	if !ok || e.Validated {
		return apperrors.NewNotFoundError("unvalidated ledger entry " + entryID)
	}
	delete(t.state.entries, entryID)
	return nil
}

func (t *memTx) MarkEntryValidated(_ context.Context, entryID string, validatedAt time.Time, validatedBy string) error {
	e, ok := t.state.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("ledger entry " + entryID)
	}
	if e.Validated {
		return apperrors.ErrAlreadyValidated
	}
	at := validatedAt
	e.Validated = true
	e.ValidatedAt = &at
	e.LastUpdatedAt = validatedAt
	e.LastUpdatedBy = validatedBy
	t.state.entries[entryID] = e
	return nil
}

func (t *memTx) LockChainTail(_ context.Context, docType domain.DocumentType) (portsrepo.ChainTail, error) {
	return t.state.integrityHeads[docType], nil
}

func (t *memTx) InsertIntegrityRecord(_ context.Context, record domain.IntegrityRecord) error {
	head := t.state.integrityHeads[record.DocumentType]
	if record.ChainPosition != head.LastPosition+1 || record.PreviousHash != head.LastHash {
		return fmt.Errorf("%w: %s chain position %d", apperrors.ErrConcurrency, record.DocumentType, record.ChainPosition)
	}
	t.state.integrity = append(t.state.integrity, record)
	t.state.integrityHeads[record.DocumentType] = portsrepo.ChainTail{LastPosition: record.ChainPosition, LastHash: record.RecordHash}
	return nil
}

func (t *memTx) LockAuditTail(_ context.Context) (portsrepo.ChainTail, error) {
	return t.state.auditHead, nil
}

func (t *memTx) InsertAuditRecord(_ context.Context, record domain.AuditRecord) error {
	if record.Sequence != t.state.auditHead.LastPosition+1 || record.PreviousHash != t.state.auditHead.LastHash {
		return fmt.Errorf("%w: audit sequence %d", apperrors.ErrConcurrency, record.Sequence)
	}
	t.state.audit = append(t.state.audit, record)
	t.state.auditHead = portsrepo.ChainTail{LastPosition: record.Sequence, LastHash: record.Hash}
	return nil
}
