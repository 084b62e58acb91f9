package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/utils/canonical"
	"github.com/SscSPs/ledger_integrity/internal/utils/pagination"
	"github.com/SscSPs/ledger_integrity/internal/utils/redaction"
)

// DefaultAuditVerifyLimit is used when VerifyChain is called without a limit.
const DefaultAuditVerifyLimit = 1000

type auditService struct {
	BaseService
	store portsrepo.Store

	maxLength     int
	businessStart int
	businessEnd   int
	location      *time.Location
	flagWeekends  bool
	bulkThreshold int
	bulkWindow    time.Duration
}

// AuditOption is a functional option for configuring the audit service
type AuditOption func(*auditService)

// WithRedactionMaxLength sets the rune limit applied to string values.
func WithRedactionMaxLength(n int) AuditOption {
	return func(s *auditService) {
		if n > 0 {
			s.maxLength = n
		}
	}
}

// WithBusinessHours sets the working window; records outside [start, end) in
// loc are flagged as off-hours.
func WithBusinessHours(start, end int, loc *time.Location) AuditOption {
	return func(s *auditService) {
		s.businessStart, s.businessEnd = start, end
		if loc != nil {
			s.location = loc
		}
	}
}

// WithWeekendFlagging treats every Saturday and Sunday record as off-hours.
func WithWeekendFlagging(enabled bool) AuditOption {
	return func(s *auditService) {
		s.flagWeekends = enabled
	}
}

// WithBulkDeleteRule flags threshold or more DELETEs by one actor within window.
func WithBulkDeleteRule(threshold int, window time.Duration) AuditOption {
	return func(s *auditService) {
		s.bulkThreshold, s.bulkWindow = threshold, window
	}
}

// WithAuditClock overrides the time source.
func WithAuditClock(c Clock) AuditOption {
	return func(s *auditService) {
		s.Clock = c
	}
}

// NewAuditService creates the global audit trail service.
func NewAuditService(store portsrepo.Store, options ...AuditOption) portssvc.AuditSvcFacade {
	svc := &auditService{
		BaseService:   newBaseService(),
		store:         store,
		maxLength:     redaction.DefaultMaxLength,
		businessStart: 7,
		businessEnd:   20,
		location:      time.UTC,
		bulkThreshold: 10,
		bulkWindow:    5 * time.Minute,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// LogChange appends one record in its own transaction.
func (s *auditService) LogChange(ctx context.Context, change domain.AuditChange, actor domain.Actor) (*domain.AuditRecord, error) {
	var record *domain.AuditRecord
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		var err error
		record, err = s.LogChangeInTx(ctx, tx, change, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// LogChangeInTx appends one record to the chain inside tx. The chain head
// stays locked until tx ends, so appenders are serialized.
func (s *auditService) LogChangeInTx(ctx context.Context, tx portsrepo.Tx, change domain.AuditChange, actor domain.Actor) (*domain.AuditRecord, error) {
	if err := s.Validator.Struct(change); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !change.Action.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit action %q", apperrors.ErrValidation, change.Action)
	}
	if actor.ID == "" {
		return nil, fmt.Errorf("%w: audit actor is required", apperrors.ErrValidation)
	}

	before, err := redaction.Normalize(change.Before)
	if err != nil {
		return nil, fmt.Errorf("%w: before image: %v", apperrors.ErrValidation, err)
	}
	after, err := redaction.Normalize(change.After)
	if err != nil {
		return nil, fmt.Errorf("%w: after image: %v", apperrors.ErrValidation, err)
	}
	changed := redaction.ChangedFields(before, after)

	beforeRaw, err := s.encodeImage(redaction.Redact(before, s.maxLength))
	if err != nil {
		return nil, err
	}
	afterRaw, err := s.encodeImage(redaction.Redact(after, s.maxLength))
	if err != nil {
		return nil, err
	}

	tail, err := tx.LockAuditTail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock audit chain: %w", err)
	}

	record := domain.AuditRecord{
		Sequence:      tail.LastPosition + 1,
		RecordID:      uuid.NewString(),
		EntityType:    change.EntityType,
		EntityID:      change.EntityID,
		Action:        change.Action,
		Before:        beforeRaw,
		After:         afterRaw,
		ChangedFields: changed,
		Justification: redaction.Truncate(change.Justification, s.maxLength),
		ActorID:       actor.ID,
		IPAddress:     actor.IPAddress,
		UserAgent:     actor.UserAgent,
		SessionID:     actor.SessionID,
		Timestamp:     s.Now(),
		PreviousHash:  tail.LastHash,
	}
	record.Hash, err = record.ComputeHash()
	if err != nil {
		return nil, fmt.Errorf("failed to hash audit record: %w", err)
	}

	if err := tx.InsertAuditRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to append audit record",
			slog.Int64("sequence", record.Sequence),
			slog.String("entity_type", record.EntityType),
			slog.String("entity_id", record.EntityID))
		return nil, err
	}

	s.LogDebug(ctx, "Audit record appended",
		slog.Int64("sequence", record.Sequence),
		slog.String("action", string(record.Action)),
		slog.String("entity_type", record.EntityType),
		slog.String("entity_id", record.EntityID))
	return &record, nil
}

func (s *auditService) encodeImage(m map[string]any) (json.RawMessage, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := canonical.JSON(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit image: %w", err)
	}
	return raw, nil
}

// VerifyChain recomputes the latest limit records. One extra, older record is
// read as an anchor so that the first link of the window can be checked too.
func (s *auditService) VerifyChain(ctx context.Context, limit int) (*domain.ChainReport, error) {
	if limit <= 0 {
		limit = DefaultAuditVerifyLimit
	}
	records, err := s.store.ListLatestAuditRecords(ctx, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit chain: %w", err)
	}

	var anchor *domain.AuditRecord
	window := records
	if len(records) > limit {
		anchor = &records[0]
		window = records[1:]
	}

	report := &domain.ChainReport{
		Checked:       len(window),
		Discrepancies: []domain.ChainDiscrepancy{},
		VerifiedAt:    s.Now(),
	}
	if len(window) > 0 {
		report.FirstSequence = window[0].Sequence
		report.LastSequence = window[len(window)-1].Sequence
	}

	if anchor != nil {
		// The anchor's own hash is checked so that a corrupted anchor is not
		// blamed on the first record of the window.
		computed, err := anchor.ComputeHash()
		if err != nil || computed != anchor.Hash {
			report.Discrepancies = append(report.Discrepancies, domain.ChainDiscrepancy{
				Position: domain.AnchorPosition, Sequence: anchor.Sequence, Kind: domain.DiscrepancyHashMismatch,
				Expected: computed, Actual: anchor.Hash,
			})
			if err == nil && len(window) > 0 && window[0].PreviousHash == computed {
				fixed := *anchor
				fixed.Hash = computed
				anchor = &fixed
			}
		}
	}

	prev := anchor
	for i := range window {
		rec := window[i]
		report.Discrepancies = append(report.Discrepancies, s.checkAuditRecord(i, rec, prev)...)
		prev = &window[i]
	}
	report.Valid = len(report.Discrepancies) == 0

	if !report.Valid {
		s.LogCritical(ctx, "Audit chain verification failed",
			slog.Int("discrepancies", len(report.Discrepancies)),
			slog.Int64("first_sequence", report.FirstSequence),
			slog.Int64("last_sequence", report.LastSequence))
	} else {
		s.LogInfo(ctx, "Audit chain verified", slog.Int("checked", report.Checked))
	}
	return report, nil
}

func (s *auditService) checkAuditRecord(pos int, rec domain.AuditRecord, prev *domain.AuditRecord) []domain.ChainDiscrepancy {
	var found []domain.ChainDiscrepancy

	computed, err := rec.ComputeHash()
	if err != nil || computed != rec.Hash {
		found = append(found, domain.ChainDiscrepancy{
			Position: pos, Sequence: rec.Sequence, Kind: domain.DiscrepancyHashMismatch,
			Expected: computed, Actual: rec.Hash,
		})
	}

	expectedPrev := ""
	switch {
	case prev != nil:
		expectedPrev = prev.Hash
		if rec.Sequence != prev.Sequence+1 {
			found = append(found, domain.ChainDiscrepancy{
				Position: pos, Sequence: rec.Sequence, Kind: domain.DiscrepancySequenceGap,
				Expected: strconv.FormatInt(prev.Sequence+1, 10), Actual: strconv.FormatInt(rec.Sequence, 10),
			})
		}
	case rec.Sequence != 1:
		// The whole chain was read and it does not start at 1.
		found = append(found, domain.ChainDiscrepancy{
			Position: pos, Sequence: rec.Sequence, Kind: domain.DiscrepancySequenceGap,
			Expected: "1", Actual: strconv.FormatInt(rec.Sequence, 10),
		})
	}
	if rec.PreviousHash != expectedPrev {
		found = append(found, domain.ChainDiscrepancy{
			Position: pos, Sequence: rec.Sequence, Kind: domain.DiscrepancyLinkBroken,
			Expected: expectedPrev, Actual: rec.PreviousHash,
		})
	}
	return found
}

// DetectSuspiciousActivity flags off-hours records, grouped per actor, and
// bursts of deletions by a single actor.
func (s *auditService) DetectSuspiciousActivity(ctx context.Context, since time.Time) ([]domain.SuspiciousActivity, error) {
	records, err := s.store.ListAuditRecordsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit records: %w", err)
	}

	activities := append(s.offHours(records), s.bulkDeletes(records)...)
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if !a.WindowStart.Equal(b.WindowStart) {
			return a.WindowStart.Before(b.WindowStart)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ActorID < b.ActorID
	})

	if len(activities) > 0 {
		s.LogWarn(ctx, "Suspicious audit activity detected", slog.Int("count", len(activities)))
	}
	return activities, nil
}

func (s *auditService) isOffHours(t time.Time) bool {
	local := t.In(s.location)
	if s.flagWeekends {
		if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	h := local.Hour()
	return h < s.businessStart || h >= s.businessEnd
}

func (s *auditService) offHours(records []domain.AuditRecord) []domain.SuspiciousActivity {
	byActor := make(map[string]*domain.SuspiciousActivity)
	var order []string
	for _, rec := range records {
		if !s.isOffHours(rec.Timestamp) {
			continue
		}
		a, ok := byActor[rec.ActorID]
		if !ok {
			a = &domain.SuspiciousActivity{
				Kind:        domain.SuspiciousOffHours,
				ActorID:     rec.ActorID,
				WindowStart: rec.Timestamp,
			}
			byActor[rec.ActorID] = a
			order = append(order, rec.ActorID)
		}
		a.Sequences = append(a.Sequences, rec.Sequence)
		if rec.Timestamp.Before(a.WindowStart) {
			a.WindowStart = rec.Timestamp
		}
		if rec.Timestamp.After(a.WindowEnd) {
			a.WindowEnd = rec.Timestamp
		}
	}

	out := make([]domain.SuspiciousActivity, 0, len(order))
	for _, actorID := range order {
		a := byActor[actorID]
		a.Description = fmt.Sprintf("%d record(s) outside business hours %02d:00-%02d:00 %s",
			len(a.Sequences), s.businessStart, s.businessEnd, s.location)
		out = append(out, *a)
	}
	return out
}

func (s *auditService) bulkDeletes(records []domain.AuditRecord) []domain.SuspiciousActivity {
	if s.bulkThreshold <= 0 {
		return nil
	}
	byActor := make(map[string][]domain.AuditRecord)
	var order []string
	for _, rec := range records {
		if rec.Action != domain.AuditDelete {
			continue
		}
		if _, ok := byActor[rec.ActorID]; !ok {
			order = append(order, rec.ActorID)
		}
		byActor[rec.ActorID] = append(byActor[rec.ActorID], rec)
	}

	var out []domain.SuspiciousActivity
	for _, actorID := range order {
		deletes := byActor[actorID]
		sort.SliceStable(deletes, func(i, j int) bool { return deletes[i].Timestamp.Before(deletes[j].Timestamp) })

		for i := 0; i < len(deletes); {
			j := i
			for j+1 < len(deletes) && deletes[j+1].Timestamp.Sub(deletes[i].Timestamp) <= s.bulkWindow {
				j++
			}
			if n := j - i + 1; n >= s.bulkThreshold {
				burst := domain.SuspiciousActivity{
					Kind:        domain.SuspiciousBulkDelete,
					ActorID:     actorID,
					WindowStart: deletes[i].Timestamp,
					WindowEnd:   deletes[j].Timestamp,
					Description: fmt.Sprintf("%d deletions within %s", n, s.bulkWindow),
				}
				for _, d := range deletes[i : j+1] {
					burst.Sequences = append(burst.Sequences, d.Sequence)
				}
				out = append(out, burst)
				i = j + 1
				continue
			}
			i++
		}
	}
	return out
}

// ListRecords pages backwards from the tail of the chain.
func (s *auditService) ListRecords(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	limit = pagination.ClampLimit(limit)

	var before *int64
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		before = &seq
	}

	records, err := s.store.ListAuditRecords(ctx, limit+1, before)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list audit records: %w", err)
	}

	var next *string
	if len(records) > limit {
		records = records[:limit]
		token := pagination.EncodeSequenceToken(records[limit-1].Sequence)
		next = &token
	}
	return records, next, nil
}
