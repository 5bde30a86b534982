package readstore

import (
	"context"
	"time"

	"capacity-engine/internal/domain/capacity"
	domprovider "capacity-engine/internal/domain/provider"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/pkg/pgconv"
	"capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProviderReadStore struct {
	db db.DBTX
}

func NewProviderReadStore(dbtx db.DBTX) *ProviderReadStore {
	return &ProviderReadStore{db: dbtx}
}

func (r *ProviderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*domprovider.Provider, error) {
	const query = `
		SELECT id, name, service_type, is_active, default_units, created_at
		FROM providers
		WHERE id = $1`

	var (
		providerID   uuid.UUID
		name         string
		serviceType  string
		isActive     bool
		defaultUnits int32
		createdAt    time.Time
	)

	err := r.db.QueryRow(ctx, query, id).Scan(&providerID, &name, &serviceType, &isActive, &defaultUnits, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("provider not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find provider", err)
	}

	return domprovider.Reconstruct(providerID, name, capacity.ServiceType(serviceType), isActive, defaultUnits, createdAt), nil
}

func (r *ProviderReadStore) ListViews(ctx context.Context, activeOnly bool) ([]*queries.ProviderView, error) {
	const query = `
		SELECT id, name, service_type, is_active, default_units, created_at
		FROM providers
		WHERE ($1 = false OR is_active = true)
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list providers", err)
	}
	defer rows.Close()

	var views []*queries.ProviderView
	for rows.Next() {
		var view queries.ProviderView
		if scanErr := rows.Scan(&view.ID, &view.Name, &view.ServiceType, &view.IsActive, &view.DefaultUnits, &view.CreatedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan provider", scanErr)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list providers", err)
	}

	return views, nil
}
