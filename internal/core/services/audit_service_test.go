package services_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/SscSPs/ledger_integrity/internal/utils/redaction"
)

type AuditServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	env *testEnv
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.env = newTestEnv(s.T())
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func (s *AuditServiceTestSuite) logN(n int, actor domain.Actor, action domain.AuditAction) []*domain.AuditRecord {
	out := make([]*domain.AuditRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := s.env.audit.LogChange(s.ctx, domain.AuditChange{
			EntityType: "customer",
			EntityID:   "c-1",
			Action:     action,
			Before:     map[string]any{"amount": "10.00"},
			After:      map[string]any{"amount": "20.00", "step": i},
		}, actor)
		s.Require().NoError(err)
		out = append(out, rec)
	}
	return out
}

func (s *AuditServiceTestSuite) TestLogChange_RedactsAndHashes() {
	rec, err := s.env.audit.LogChange(s.ctx, domain.AuditChange{
		EntityType: "user",
		EntityID:   "u-7",
		Action:     domain.AuditUpdate,
		Before:     map[string]any{"amount": "5.00", "removed": true},
		After: map[string]any{
			"api_token":     "abc123",
			"user_password": "hunter2",
			"amount":        "10.00",
			"nested":        map[string]any{"client_secret": "x", "name": "n"},
			"note":          strings.Repeat("é", 1005),
		},
		Justification: "support ticket",
	}, testActor)
	s.Require().NoError(err)

	s.Equal(int64(1), rec.Sequence)
	s.Empty(rec.PreviousHash)
	s.Equal(businessMorning, rec.Timestamp)
	s.Equal("sess-1", rec.SessionID)

	var after map[string]any
	s.Require().NoError(json.Unmarshal(rec.After, &after))
	s.Equal(redaction.Mask, after["api_token"])
	s.Equal(redaction.Mask, after["user_password"])
	s.Equal("10.00", after["amount"])
	s.Equal(map[string]any{"client_secret": redaction.Mask, "name": "n"}, after["nested"])
	s.Equal(strings.Repeat("é", 1000)+redaction.TruncationMarker, after["note"])
	s.NotContains(string(rec.After), "abc123")
	s.NotContains(string(rec.After), "hunter2")

	s.Equal([]string{"amount", "api_token", "nested", "note", "removed", "user_password"}, rec.ChangedFields)

	h, err := rec.ComputeHash()
	s.Require().NoError(err)
	s.Equal(h, rec.Hash)
}

func (s *AuditServiceTestSuite) TestLogChange_Validation() {
	tests := []struct {
		name   string
		change domain.AuditChange
		actor  domain.Actor
	}{
		{"missing entity type", domain.AuditChange{EntityID: "1", Action: domain.AuditCreate}, testActor},
		{"unknown action", domain.AuditChange{EntityType: "x", EntityID: "1", Action: "PATCH"}, testActor},
		{"missing actor", domain.AuditChange{EntityType: "x", EntityID: "1", Action: domain.AuditView}, domain.Actor{}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.env.audit.LogChange(s.ctx, tt.change, tt.actor)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *AuditServiceTestSuite) TestChainLinksAndVerifies() {
	records := s.logN(5, testActor, domain.AuditUpdate)
	for i := 1; i < len(records); i++ {
		s.Equal(records[i-1].Hash, records[i].PreviousHash)
		s.Equal(records[i-1].Sequence+1, records[i].Sequence)
	}

	report, err := s.env.audit.VerifyChain(s.ctx, 0)
	s.Require().NoError(err)
	s.True(report.Valid)
	s.Equal(5, report.Checked)
	s.Empty(report.Discrepancies)

	// A window smaller than the chain is anchored on the record before it.
	report, err = s.env.audit.VerifyChain(s.ctx, 3)
	s.Require().NoError(err)
	s.True(report.Valid)
	s.Equal(3, report.Checked)
	s.Equal(int64(3), report.FirstSequence)
	s.Equal(int64(5), report.LastSequence)
}

func (s *AuditServiceTestSuite) TestVerifyChain_ReportsExactCorruptedPosition() {
	s.logN(5, testActor, domain.AuditUpdate)
	s.Require().True(s.env.store.MutateAuditRecord(3, func(r *domain.AuditRecord) {
		r.After = json.RawMessage(`{"amount":"999.00"}`)
	}))

	report, err := s.env.audit.VerifyChain(s.ctx, 10)
	s.Require().NoError(err)
	s.False(report.Valid)
	s.Require().Len(report.Discrepancies, 1)
	d := report.Discrepancies[0]
	s.Equal(2, d.Position)
	s.Equal(int64(3), d.Sequence)
	s.Equal(domain.DiscrepancyHashMismatch, d.Kind)
	s.NotEqual(d.Expected, d.Actual)
}

func (s *AuditServiceTestSuite) TestVerifyChain_ReportsBrokenLink() {
	s.logN(5, testActor, domain.AuditUpdate)
	s.Require().True(s.env.store.MutateAuditRecord(4, func(r *domain.AuditRecord) {
		r.PreviousHash = "deadbeef"
	}))

	report, err := s.env.audit.VerifyChain(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(report.Discrepancies, 2)

	kinds := []string{report.Discrepancies[0].Kind, report.Discrepancies[1].Kind}
	s.ElementsMatch([]string{domain.DiscrepancyHashMismatch, domain.DiscrepancyLinkBroken}, kinds)
	for _, d := range report.Discrepancies {
		s.Equal(3, d.Position)
		if d.Kind == domain.DiscrepancyLinkBroken {
			s.Equal("deadbeef", d.Actual)
		}
	}
}

func (s *AuditServiceTestSuite) TestVerifyChain_CorruptedAnchorIsReportedOnItself() {
	tests := []struct {
		name   string
		mutate func(r *domain.AuditRecord)
	}{
		{"stored hash overwritten", func(r *domain.AuditRecord) { r.Hash = "deadbeef" }},
		{"content altered", func(r *domain.AuditRecord) { r.After = json.RawMessage(`{"amount":"999.00"}`) }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.logN(5, testActor, domain.AuditUpdate)
			// A window of 3 reads sequence 2 as its anchor.
			s.Require().True(s.env.store.MutateAuditRecord(2, tt.mutate))

			report, err := s.env.audit.VerifyChain(s.ctx, 3)
			s.Require().NoError(err)
			s.False(report.Valid)
			s.Equal(3, report.Checked)
			s.Equal(int64(3), report.FirstSequence)
			s.Require().Len(report.Discrepancies, 1)
			d := report.Discrepancies[0]
			s.Equal(domain.AnchorPosition, d.Position)
			s.Equal(int64(2), d.Sequence)
			s.Equal(domain.DiscrepancyHashMismatch, d.Kind)
		})
	}
}

func (s *AuditServiceTestSuite) TestDetectSuspiciousActivity() {
	bob := domain.Actor{ID: "bob", IPAddress: "10.0.0.2"}
	carol := domain.Actor{ID: "carol", IPAddress: "10.0.0.3"}

	s.env.clock.Set(time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC))
	s.logN(2, bob, domain.AuditUpdate)

	s.env.clock.Set(businessMorning)
	s.logN(1, testActor, domain.AuditUpdate)

	s.env.clock.Set(time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC))
	for i := 0; i < 5; i++ {
		s.logN(1, carol, domain.AuditDelete)
		s.env.clock.Advance(10 * time.Second)
	}

	found, err := s.env.audit.DetectSuspiciousActivity(s.ctx, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(found, 2)

	s.Equal(domain.SuspiciousOffHours, found[0].Kind)
	s.Equal("bob", found[0].ActorID)
	s.Equal([]int64{1, 2}, found[0].Sequences)

	s.Equal(domain.SuspiciousBulkDelete, found[1].Kind)
	s.Equal("carol", found[1].ActorID)
	s.Equal([]int64{4, 5, 6, 7, 8}, found[1].Sequences)
	s.Equal(40*time.Second, found[1].WindowEnd.Sub(found[1].WindowStart))
}

func (s *AuditServiceTestSuite) TestDetectSuspiciousActivity_WeekendAndSlowDeletes() {
	s.env.clock.Set(time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)) // Saturday
	s.logN(1, testActor, domain.AuditView)

	s.env.clock.Set(time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC))
	for i := 0; i < 5; i++ {
		s.logN(1, testActor, domain.AuditDelete)
		s.env.clock.Advance(30 * time.Second)
	}

	found, err := s.env.audit.DetectSuspiciousActivity(s.ctx, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(domain.SuspiciousOffHours, found[0].Kind)
	s.Equal([]int64{1}, found[0].Sequences)

	// Records before since are ignored.
	found, err = s.env.audit.DetectSuspiciousActivity(s.ctx, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Empty(found)
}

func (s *AuditServiceTestSuite) TestListRecords_Pagination() {
	s.logN(5, testActor, domain.AuditView)

	page, next, err := s.env.audit.ListRecords(s.ctx, 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(int64(5), page[0].Sequence)
	s.Equal(int64(4), page[1].Sequence)
	s.Require().NotNil(next)

	page, next, err = s.env.audit.ListRecords(s.ctx, 2, next)
	s.Require().NoError(err)
	s.Equal([]int64{3, 2}, []int64{page[0].Sequence, page[1].Sequence})
	s.Require().NotNil(next)

	page, next, err = s.env.audit.ListRecords(s.ctx, 2, next)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(int64(1), page[0].Sequence)
	s.Nil(next)

	bad := "not-a-token"
	_, _, err = s.env.audit.ListRecords(s.ctx, 2, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)
}
