package repository

import (
	"context"
	"time"

	domalert "capacity-engine/internal/domain/alert"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
)

type AlertRepository struct {
	db db.DBTX
}

func NewAlertRepository(dbtx db.DBTX) *AlertRepository {
	return &AlertRepository{db: dbtx}
}

func (r *AlertRepository) Create(ctx context.Context, a *domalert.Alert) error {
	const query = `
		INSERT INTO capacity_alerts
			(id, alert_type, severity, alert_date, service_type, slot_count, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, now())`

	var serviceType *string
	if st := a.ServiceType(); st != nil {
		s := st.String()
		serviceType = &s
	}

	_, err := r.db.Exec(ctx, query,
		a.ID(),
		string(a.Type()),
		string(a.Severity()),
		a.Date(),
		serviceType,
		a.SlotCount(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create capacity alert", err)
	}

	return nil
}

func (r *AlertRepository) HasRecentUnresolved(ctx context.Context, alertType domalert.Type, severity domalert.Severity, since time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM capacity_alerts
			WHERE alert_type = $1 AND severity = $2 AND resolved = false AND created_at >= $3
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, string(alertType), string(severity), since).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check recent alerts", err)
	}

	return exists, nil
}
