package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

type PostingServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	env *testEnv
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.env = newTestEnv(s.T())
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

func (s *PostingServiceTestSuite) TestPostInvoice_StandardScenario() {
	entry, err := s.env.posting.PostInvoice(s.ctx, sampleInvoice("inv-1", "F2024-001"), testActor)
	s.Require().NoError(err)

	s.Equal("VT", entry.JournalCode)
	s.Equal(int64(1), entry.EntryNumber)
	s.Equal("FY2024", entry.FiscalPeriodID)
	s.Equal(domain.DocumentRef{Type: domain.DocumentTypeInvoice, ID: "inv-1", Number: "F2024-001"}, entry.Source)
	s.False(entry.Validated)
	s.Require().Len(entry.Lines, 3)

	receivable := entry.Lines[0]
	s.Equal("411000", receivable.AccountCode)
	s.True(receivable.Debit.Equal(dec("1200.00")))
	s.True(receivable.Credit.IsZero())
	s.Equal("C00000042", receivable.SubsidiaryAccount)

	s.Equal("701000", entry.Lines[1].AccountCode)
	s.True(entry.Lines[1].Credit.Equal(dec("1000.00")))
	s.Equal("445711", entry.Lines[2].AccountCode)
	s.True(entry.Lines[2].Credit.Equal(dec("200.00")))
	s.True(entry.IsBalanced())

	stored, err := s.env.posting.GetEntry(s.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(entry.EntryNumber, stored.EntryNumber)
	s.Len(stored.Lines, 3)

	chain, err := s.env.store.ListIntegrityChain(s.ctx, domain.DocumentTypeInvoice)
	s.Require().NoError(err)
	s.Require().Len(chain, 1)
	s.Equal("inv-1", chain[0].DocumentID)

	records, err := s.env.store.ListLatestAuditRecords(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(domain.AuditCreate, records[0].Action)
	s.Equal(entry.EntryID, records[0].EntityID)
}

func (s *PostingServiceTestSuite) TestPostInvoice_MixedRates() {
	inv := sampleInvoice("inv-mixed", "F2024-002")
	inv.Lines = []domain.InvoiceLine{
		{LineID: "L1", Quantity: dec("1"), UnitPrice: dec("100.00"), TaxRate: dec("20")},
		{LineID: "L2", Quantity: dec("3"), UnitPrice: dec("10.00"), TaxRate: dec("5.5")},
		{LineID: "L3", Quantity: dec("1"), UnitPrice: dec("50.00"), TaxRate: dec("0")},
	}

	entry, err := s.env.posting.PostInvoice(s.ctx, inv, testActor)
	s.Require().NoError(err)

	got := make(map[string]string)
	for _, l := range entry.Lines {
		got[l.AccountCode] = domain.FormatMoney(l.Amount())
	}
	s.Equal(map[string]string{
		"411000": "201.65",
		"701000": "100.00",
		"445711": "20.00",
		"701200": "30.00",
		"445713": "1.65",
		"701900": "50.00",
	}, got)
	s.True(entry.IsBalanced())
}

func (s *PostingServiceTestSuite) TestPostInvoice_CreditNoteMirrorsSides() {
	inv := sampleInvoice("cn-1", "AV2024-001")
	inv.Kind = domain.InvoiceKindCreditNote

	entry, err := s.env.posting.PostInvoice(s.ctx, inv, testActor)
	s.Require().NoError(err)

	s.Equal(domain.DocumentTypeCreditNote, entry.Source.Type)
	s.True(entry.Lines[0].Credit.Equal(dec("1200.00")))
	s.True(entry.Lines[1].Debit.Equal(dec("1000.00")))
	s.True(entry.Lines[2].Debit.Equal(dec("200.00")))

	chain, err := s.env.store.ListIntegrityChain(s.ctx, domain.DocumentTypeCreditNote)
	s.Require().NoError(err)
	s.Len(chain, 1)
}

func (s *PostingServiceTestSuite) TestPostInvoice_RejectsWithoutWriting() {
	closed := newTestEnv(s.T())
	closed.chart.ClosePeriods()

	noTax := newTestEnv(s.T())
	noTax.chart.AddAccount(domain.ChartAccount{Code: "445711", Label: "TVA", IsActive: false})

	wrongTotal := sampleInvoice("inv-x", "F2024-010")
	declared := dec("1199.99")
	wrongTotal.DeclaredTotal = &declared

	badLine := sampleInvoice("inv-y", "F2024-011")
	badLine.Lines[0].Quantity = dec("0")

	missingNumber := sampleInvoice("inv-z", "")

	tests := []struct {
		name string
		env  *testEnv
		inv  domain.Invoice
		want error
	}{
		{"no open period", closed, sampleInvoice("inv-a", "F1"), apperrors.ErrNoOpenPeriod},
		{"inactive tax account", noTax, sampleInvoice("inv-b", "F2"), apperrors.ErrConfiguration},
		{"declared total differs", s.env, wrongTotal, apperrors.ErrValidation},
		{"non positive quantity", s.env, badLine, apperrors.ErrValidation},
		{"struct validation", s.env, missingNumber, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := tt.env.posting.PostInvoice(s.ctx, tt.inv, testActor)
			s.ErrorIs(err, tt.want)

			records, err := tt.env.store.ListLatestAuditRecords(s.ctx, 10)
			s.Require().NoError(err)
			s.Empty(records)
			chain, err := tt.env.store.ListIntegrityChain(s.ctx, tt.inv.DocumentRef().Type)
			s.Require().NoError(err)
			s.Empty(chain)
		})
	}
}

func (s *PostingServiceTestSuite) TestPostInvoice_UnmappedRateIsConfigurationError() {
	inv := sampleInvoice("inv-r", "F2024-020")
	inv.Lines[0].TaxRate = dec("8.5")
	_, err := s.env.posting.PostInvoice(s.ctx, inv, testActor)
	s.ErrorIs(err, apperrors.ErrConfiguration)
}

func (s *PostingServiceTestSuite) TestPostInvoice_Duplicate() {
	inv := sampleInvoice("inv-dup", "F2024-003")
	_, err := s.env.posting.PostInvoice(s.ctx, inv, testActor)
	s.Require().NoError(err)

	_, err = s.env.posting.PostInvoice(s.ctx, inv, testActor)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	chain, err := s.env.store.ListIntegrityChain(s.ctx, domain.DocumentTypeInvoice)
	s.Require().NoError(err)
	s.Len(chain, 1)
}

func (s *PostingServiceTestSuite) TestPostInvoice_SigningFailureRollsBack() {
	env := newTestEnvWithSigner(nil)
	inv := sampleInvoice("inv-nokey", "F2024-004")

	_, err := env.posting.PostInvoice(s.ctx, inv, testActor)
	s.ErrorIs(err, apperrors.ErrConfiguration)

	err = env.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		_, err := tx.FindEntryBySource(ctx, inv.DocumentRef())
		return err
	})
	s.ErrorIs(err, apperrors.ErrNotFound)

	// The journal sequence rolled back with the rest.
	withKey := newTestEnvOver(env.store, env.chart, testSigner(s.T()))
	entry, err := withKey.posting.PostInvoice(s.ctx, inv, testActor)
	s.Require().NoError(err)
	s.Equal(int64(1), entry.EntryNumber)
}

func (s *PostingServiceTestSuite) TestCancelPosting() {
	entry, err := s.env.posting.PostInvoice(s.ctx, sampleInvoice("inv-c", "F2024-005"), testActor)
	s.Require().NoError(err)

	s.ErrorIs(s.env.posting.CancelPosting(s.ctx, entry.EntryID, "  ", testActor), apperrors.ErrValidation)
	s.Require().NoError(s.env.posting.CancelPosting(s.ctx, entry.EntryID, "wrong customer", testActor))

	_, err = s.env.posting.GetEntry(s.ctx, entry.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	records, err := s.env.store.ListLatestAuditRecords(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	del := records[1]
	s.Equal(domain.AuditDelete, del.Action)
	s.Equal("wrong customer", del.Justification)
	s.NotEmpty(del.Before)
	s.Empty(del.After)
	s.Contains(del.ChangedFields, "entry_number")

	s.ErrorIs(s.env.posting.CancelPosting(s.ctx, entry.EntryID, "again", testActor), apperrors.ErrNotFound)
}

func (s *PostingServiceTestSuite) TestValidateEntry() {
	entry, err := s.env.posting.PostInvoice(s.ctx, sampleInvoice("inv-v", "F2024-006"), testActor)
	s.Require().NoError(err)

	validated, err := s.env.posting.ValidateEntry(s.ctx, entry.EntryID, testActor)
	s.Require().NoError(err)
	s.True(validated.Validated)
	s.Require().NotNil(validated.ValidatedAt)
	s.True(validated.ValidatedAt.Equal(businessMorning))

	chain, err := s.env.store.ListIntegrityChain(s.ctx, domain.DocumentTypeLedgerEntry)
	s.Require().NoError(err)
	s.Require().Len(chain, 1)
	s.Equal("VT-1", chain[0].DocumentNumber)

	_, err = s.env.posting.ValidateEntry(s.ctx, entry.EntryID, testActor)
	s.ErrorIs(err, apperrors.ErrAlreadyValidated)
	s.ErrorIs(s.env.posting.CancelPosting(s.ctx, entry.EntryID, "too late", testActor), apperrors.ErrAlreadyValidated)

	records, err := s.env.store.ListLatestAuditRecords(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(domain.AuditUpdate, records[1].Action)
	s.Contains(records[1].ChangedFields, "validated")
}

func TestPostInvoice_ConcurrentNumbering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const n = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := env.posting.PostInvoice(ctx, sampleInvoice(fmt.Sprintf("inv-%02d", i), fmt.Sprintf("F%02d", i)), testActor)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, entry.EntryNumber)
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, num := range numbers {
		assert.Equal(t, int64(i+1), num)
	}

	report, err := env.audit.VerifyChain(ctx, 100)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, n, report.Checked)

	chain, err := env.integrity.VerifyChain(ctx, domain.DocumentTypeInvoice)
	require.NoError(t, err)
	assert.True(t, chain.Valid)
	assert.Equal(t, n, chain.RecordCount)
}

func TestPostInvoice_EntryDateIsCalendarDate(t *testing.T) {
	env := newTestEnv(t)
	inv := sampleInvoice("inv-t", "F2024-030")
	inv.IssueDate = time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)

	entry, err := env.posting.PostInvoice(context.Background(), inv, testActor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), entry.EntryDate)
}
