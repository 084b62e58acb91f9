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

const integrityColumns = `
	record_id, document_type, document_id, document_number, document_hash,
	previous_hash, record_hash, signature, chain_position, created_at, created_by,
	ip_address, user_agent, metadata, verification_status, last_verified_at`

// PgxIntegrityRepository stores the per-document-type seal chains.
type PgxIntegrityRepository struct {
	BaseRepository
}

func newPgxIntegrityRepository(pool *pgxpool.Pool) *PgxIntegrityRepository {
	return &PgxIntegrityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindLatestIntegrityRecord returns the most recent seal of a document.
func (r *PgxIntegrityRepository) FindLatestIntegrityRecord(ctx context.Context, docType domain.DocumentType, documentID string) (*domain.IntegrityRecord, error) {
	query := `SELECT ` + integrityColumns + `
		FROM integrity_records
		WHERE document_type = $1 AND document_id = $2
		ORDER BY chain_position DESC
		LIMIT 1;
	`
	rec, err := r.queryOne(ctx, query, string(docType), documentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("integrity record for %s %s", docType, documentID))
	}
	return rec, err
}

// FindIntegrityRecordByPosition returns the record at a chain position.
func (r *PgxIntegrityRepository) FindIntegrityRecordByPosition(ctx context.Context, docType domain.DocumentType, position int64) (*domain.IntegrityRecord, error) {
	query := `SELECT ` + integrityColumns + `
		FROM integrity_records
		WHERE document_type = $1 AND chain_position = $2;
	`
	rec, err := r.queryOne(ctx, query, string(docType), position)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("integrity record %s #%d", docType, position))
	}
	return rec, err
}

// ListIntegrityChain returns every record of a type in chain order.
func (r *PgxIntegrityRepository) ListIntegrityChain(ctx context.Context, docType domain.DocumentType) ([]domain.IntegrityRecord, error) {
	query := `SELECT ` + integrityColumns + `
		FROM integrity_records
		WHERE document_type = $1
		ORDER BY chain_position;
	`
	return r.queryMany(ctx, query, string(docType))
}

// UpdateVerificationStatus writes the cached verification outcome. The
// append-only trigger rejects changes to any other column, and a compromised
// status is never downgraded.
func (r *PgxIntegrityRepository) UpdateVerificationStatus(ctx context.Context, recordID string, status domain.VerificationStatus, verifiedAt time.Time) error {
	query := `
		UPDATE integrity_records
		SET verification_status = CASE WHEN verification_status = 'compromised' THEN verification_status ELSE $2 END,
			last_verified_at = $3
		WHERE record_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, recordID, string(status), verifiedAt)
	if err != nil {
		return mapPgError(err, "failed to update verification status of "+recordID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("integrity record " + recordID)
	}
	return nil
}

// lockChainTail creates the chain head on first use, then locks it.
func (r *PgxIntegrityRepository) lockChainTail(ctx context.Context, q querier, docType domain.DocumentType) (portsrepo.ChainTail, error) {
	_, err := q.Exec(ctx, `
		INSERT INTO integrity_chain_heads (document_type, last_position, last_hash)
		VALUES ($1, 0, '')
		ON CONFLICT (document_type) DO NOTHING;
	`, string(docType))
	if err != nil {
		return portsrepo.ChainTail{}, mapPgError(err, "failed to create chain head for "+string(docType))
	}

	var tail portsrepo.ChainTail
	err = q.QueryRow(ctx, `
		SELECT last_position, last_hash
		FROM integrity_chain_heads
		WHERE document_type = $1
		FOR UPDATE;
	`, string(docType)).Scan(&tail.LastPosition, &tail.LastHash)
	if err != nil {
		return portsrepo.ChainTail{}, mapPgError(err, "failed to lock chain head for "+string(docType))
	}
	return tail, nil
}

func (r *PgxIntegrityRepository) insertRecord(ctx context.Context, q querier, record domain.IntegrityRecord) error {
	m, err := mapping.ToModelIntegrityRecord(record)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map integrity record", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO integrity_records (`+integrityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`,
		m.RecordID, m.DocumentType, m.DocumentID, m.DocumentNumber, m.DocumentHash,
		m.PreviousHash, m.RecordHash, m.Signature, m.ChainPosition, m.CreatedAt, m.CreatedBy,
		m.IPAddress, m.UserAgent, m.Metadata, m.VerificationStatus, m.LastVerifiedAt,
	)
	batch.Queue(`
		UPDATE integrity_chain_heads
		SET last_position = $2, last_hash = $3
		WHERE document_type = $1 AND last_position = $2 - 1 AND last_hash = $4;
	`, m.DocumentType, m.ChainPosition, m.RecordHash, record.PreviousHash)

	results := q.SendBatch(ctx, batch)
	if _, err := results.Exec(); err != nil {
		results.Close()
		return mapPgError(err, fmt.Sprintf("failed to append %s chain position %d", m.DocumentType, m.ChainPosition))
	}
	tag, err := results.Exec()
	if err != nil {
		results.Close()
		return mapPgError(err, "failed to advance chain head for "+m.DocumentType)
	}
	if err := results.Close(); err != nil {
		return mapPgError(err, "failed to append integrity record")
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: %s chain position %d", apperrors.ErrConcurrency, m.DocumentType, m.ChainPosition)
	}
	return nil
}

func (r *PgxIntegrityRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.IntegrityRecord, error) {
	records, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &records[0], nil
}

func (r *PgxIntegrityRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.IntegrityRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query integrity records", err)
	}
	defer rows.Close()

	var out []domain.IntegrityRecord
	for rows.Next() {
		var m models.IntegrityRecord
		if err := rows.Scan(
			&m.RecordID, &m.DocumentType, &m.DocumentID, &m.DocumentNumber, &m.DocumentHash,
			&m.PreviousHash, &m.RecordHash, &m.Signature, &m.ChainPosition, &m.CreatedAt, &m.CreatedBy,
			&m.IPAddress, &m.UserAgent, &m.Metadata, &m.VerificationStatus, &m.LastVerifiedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan integrity record", err)
		}
		rec, err := mapping.ToDomainIntegrityRecord(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to map integrity record", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating integrity records", err)
	}
	return out, nil
}
