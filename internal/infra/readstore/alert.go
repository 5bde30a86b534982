package readstore

import (
	"context"

	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/pkg/pgconv"
	"capacity-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type AlertReadStore struct {
	db db.DBTX
}

func NewAlertReadStore(dbtx db.DBTX) *AlertReadStore {
	return &AlertReadStore{db: dbtx}
}

func (r *AlertReadStore) List(ctx context.Context, unresolvedOnly bool) ([]*queries.AlertView, error) {
	const query = `
		SELECT id, alert_type, severity, alert_date, service_type, slot_count, resolved, created_at
		FROM capacity_alerts
		WHERE ($1 = false OR resolved = false)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, unresolvedOnly)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list capacity alerts", err)
	}
	defer rows.Close()

	var views []*queries.AlertView
	for rows.Next() {
		var (
			view        queries.AlertView
			serviceType pgtype.Text
		)
		if scanErr := rows.Scan(
			&view.ID, &view.AlertType, &view.Severity, &view.AlertDate,
			&serviceType, &view.SlotCount, &view.Resolved, &view.CreatedAt,
		); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan capacity alert", scanErr)
		}
		view.ServiceType = pgconv.StringPtrFromPgtype(serviceType)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list capacity alerts", err)
	}

	return views, nil
}
