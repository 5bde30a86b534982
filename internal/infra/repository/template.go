package repository

import (
	"context"
	"errors"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type TemplateRepository struct {
	db db.DBTX
}

func NewTemplateRepository(dbtx db.DBTX) *TemplateRepository {
	return &TemplateRepository{db: dbtx}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *capacity.Template) error {
	const query = `
		INSERT INTO capacity_templates
			(id, provider_id, service_type, day_of_week, start_time, end_time, max_units, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`

	_, err := r.db.Exec(ctx, query,
		tpl.ID(),
		tpl.ProviderID(),
		tpl.ServiceType().String(),
		int(tpl.DayOfWeek()),
		tpl.StartTime().String(),
		tpl.EndTime().String(),
		tpl.MaxUnits(),
		tpl.IsActive(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeForeignKeyViolated {
			return infra.WrapRepoErr("failed to create capacity template", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create capacity template", err)
	}

	return nil
}

// Deactivate keeps the row for traceability of slots generated from it.
func (r *TemplateRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE capacity_templates SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to deactivate capacity template", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("capacity template not found", nil, infra.KindNotFound)
	}

	return nil
}
