package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/user-account-service/internal/domain"
)

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_log (id, event_type, actor_identity, actor_id,
            target_identity, target_id, description, outcome, source_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.EventType,
		entry.ActorIdentity,
		entry.ActorID,
		entry.TargetIdentity,
		entry.TargetID,
		entry.Description,
		string(entry.Outcome),
		entry.SourceAddress,
	).Scan(&entry.CreatedAt)
}
