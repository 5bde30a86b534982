package readstore

import (
	"context"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/pkg/pgconv"
	"capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type TemplateReadStore struct {
	db db.DBTX
}

func NewTemplateReadStore(dbtx db.DBTX) *TemplateReadStore {
	return &TemplateReadStore{db: dbtx}
}

const templateColumns = `
	id, provider_id, service_type, day_of_week, start_time, end_time,
	max_units, is_active, created_at, updated_at`

func (r *TemplateReadStore) FindByID(ctx context.Context, id uuid.UUID) (*capacity.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM capacity_templates WHERE id = $1`

	tpl, err := scanTemplate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("capacity template not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find capacity template", err)
	}

	return tpl, nil
}

// ActiveTemplates returns active templates owned by active providers; the
// population job never generates for a deactivated provider.
func (r *TemplateReadStore) ActiveTemplates(ctx context.Context) ([]*capacity.Template, error) {
	query := `
		SELECT t.id, t.provider_id, t.service_type, t.day_of_week, t.start_time, t.end_time,
		       t.max_units, t.is_active, t.created_at, t.updated_at
		FROM capacity_templates t
		JOIN providers p ON p.id = t.provider_id
		WHERE t.is_active = true AND p.is_active = true
		ORDER BY t.provider_id, t.day_of_week, t.start_time`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active templates", err)
	}
	defer rows.Close()

	var templates []*capacity.Template
	for rows.Next() {
		tpl, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan capacity template", scanErr)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list active templates", err)
	}

	return templates, nil
}

func (r *TemplateReadStore) ListViews(ctx context.Context, providerID *uuid.UUID) ([]*queries.TemplateView, error) {
	query := `SELECT ` + templateColumns + `
		FROM capacity_templates
		WHERE ($1::uuid IS NULL OR provider_id = $1)
		ORDER BY provider_id, day_of_week, start_time`

	rows, err := r.db.Query(ctx, query, providerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list capacity templates", err)
	}
	defer rows.Close()

	var views []*queries.TemplateView
	for rows.Next() {
		var view queries.TemplateView
		if scanErr := rows.Scan(
			&view.ID, &view.ProviderID, &view.ServiceType, &view.DayOfWeek,
			&view.StartTime, &view.EndTime, &view.MaxUnits, &view.IsActive,
			&view.CreatedAt, &view.UpdatedAt,
		); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan capacity template", scanErr)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list capacity templates", err)
	}

	return views, nil
}

type templateRowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row templateRowScanner) (*capacity.Template, error) {
	var (
		id, providerID       uuid.UUID
		serviceType          string
		dayOfWeek            int
		startTime, endTime   string
		maxUnits             int32
		isActive             bool
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(
		&id, &providerID, &serviceType, &dayOfWeek, &startTime, &endTime,
		&maxUnits, &isActive, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	start, err := capacity.ParseMinuteOfDay(startTime)
	if err != nil {
		return nil, err
	}
	end, err := capacity.ParseMinuteOfDay(endTime)
	if err != nil {
		return nil, err
	}

	return capacity.ReconstructTemplate(
		id, providerID,
		capacity.ServiceType(serviceType),
		dayOfWeek, start, end, maxUnits, isActive,
		createdAt, updatedAt,
	), nil
}
