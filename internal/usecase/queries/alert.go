package queries

import "context"

type AlertReadStore interface {
	List(ctx context.Context, unresolvedOnly bool) ([]*AlertView, error)
}

type AlertQueries interface {
	ListAlerts(ctx context.Context, unresolvedOnly bool) ([]*AlertView, error)
}

type alertQueriesImpl struct {
	store AlertReadStore
}

func NewAlertQueries(store AlertReadStore) AlertQueries {
	return &alertQueriesImpl{store: store}
}

func (q *alertQueriesImpl) ListAlerts(ctx context.Context, unresolvedOnly bool) ([]*AlertView, error) {
	return q.store.List(ctx, unresolvedOnly)
}
