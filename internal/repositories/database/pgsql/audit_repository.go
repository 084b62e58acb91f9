package pgsql

import (
	"context"
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

const auditColumns = `
	sequence, record_id, entity_type, entity_id, action, before_image, after_image,
	changed_fields, justification, actor_id, ip_address, user_agent, session_id,
	recorded_at, previous_hash, hash`

// PgxAuditRepository stores the global audit chain.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// ListLatestAuditRecords returns the most recent records in ascending order.
// A non-positive limit returns the whole chain.
func (r *PgxAuditRepository) ListLatestAuditRecords(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	query := `SELECT ` + auditColumns + ` FROM (
			SELECT ` + auditColumns + ` FROM audit_records ORDER BY sequence DESC LIMIT $1
		) latest
		ORDER BY sequence;
	`
	return r.query(ctx, query, lim)
}

// ListAuditRecordsSince returns records stamped at or after since.
func (r *PgxAuditRepository) ListAuditRecordsSince(ctx context.Context, since time.Time) ([]domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + `
		FROM audit_records
		WHERE recorded_at >= $1
		ORDER BY sequence;
	`
	return r.query(ctx, query, since)
}

// ListAuditRecords pages backwards through the chain.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, limit int, beforeSequence *int64) ([]domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + `
		FROM audit_records
		WHERE ($2::bigint IS NULL OR sequence < $2)
		ORDER BY sequence DESC
		LIMIT $1;
	`
	return r.query(ctx, query, limit, beforeSequence)
}

func (r *PgxAuditRepository) lockAuditTail(ctx context.Context, q querier) (portsrepo.ChainTail, error) {
	var tail portsrepo.ChainTail
	err := q.QueryRow(ctx, `SELECT last_sequence, last_hash FROM audit_chain_head WHERE id FOR UPDATE;`).
		Scan(&tail.LastPosition, &tail.LastHash)
	if err != nil {
		return portsrepo.ChainTail{}, mapPgError(err, "failed to lock audit chain head")
	}
	return tail, nil
}

func (r *PgxAuditRepository) insertRecord(ctx context.Context, q querier, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO audit_records (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`,
		m.Sequence, m.RecordID, m.EntityType, m.EntityID, m.Action, m.BeforeImage, m.AfterImage,
		m.ChangedFields, m.Justification, m.ActorID, m.IPAddress, m.UserAgent, m.SessionID,
		m.RecordedAt, m.PreviousHash, m.Hash,
	)
	batch.Queue(`
		UPDATE audit_chain_head
		SET last_sequence = $1, last_hash = $2
		WHERE id AND last_sequence = $1 - 1 AND last_hash = $3;
	`, m.Sequence, m.Hash, record.PreviousHash)

	results := q.SendBatch(ctx, batch)
	if _, err := results.Exec(); err != nil {
		results.Close()
		return mapPgError(err, fmt.Sprintf("failed to append audit sequence %d", m.Sequence))
	}
	tag, err := results.Exec()
	if err != nil {
		results.Close()
		return mapPgError(err, "failed to advance audit chain head")
	}
	if err := results.Close(); err != nil {
		return mapPgError(err, "failed to append audit record")
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: audit sequence %d", apperrors.ErrConcurrency, m.Sequence)
	}
	return nil
}

func (r *PgxAuditRepository) query(ctx context.Context, query string, args ...any) ([]domain.AuditRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit records", err)
	}
	defer rows.Close()

	out := []domain.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		if err := rows.Scan(
			&m.Sequence, &m.RecordID, &m.EntityType, &m.EntityID, &m.Action, &m.BeforeImage, &m.AfterImage,
			&m.ChangedFields, &m.Justification, &m.ActorID, &m.IPAddress, &m.UserAgent, &m.SessionID,
			&m.RecordedAt, &m.PreviousHash, &m.Hash,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit record", err)
		}
		out = append(out, mapping.ToDomainAuditRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit records", err)
	}
	return out, nil
}
