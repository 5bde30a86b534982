package repository

import (
	"context"
	"encoding/json"

	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// AuditRepository appends to the collaborator audit trail. Callers treat
// failures as non-fatal: the primary mutation has already committed.
type AuditRepository struct {
	db db.DBTX
}

func NewAuditRepository(dbtx db.DBTX) *AuditRepository {
	return &AuditRepository{db: dbtx}
}

func (r *AuditRepository) Append(ctx context.Context, entry shared.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return infra.WrapRepoErr("failed to encode audit changes", err)
	}

	const query = `
		INSERT INTO audit_logs (id, actor, action, entity_type, entity_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`

	if _, err := r.db.Exec(ctx, query, uuid.New(), entry.Actor, entry.Action, entry.EntityType, entry.EntityID, changes); err != nil {
		return infra.WrapRepoErr("failed to append audit log", err)
	}

	return nil
}
