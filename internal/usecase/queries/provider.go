package queries

import "context"

type ProviderReadStore interface {
	ListViews(ctx context.Context, activeOnly bool) ([]*ProviderView, error)
}

type ProviderQueries interface {
	ListProviders(ctx context.Context, activeOnly bool) ([]*ProviderView, error)
}

type providerQueriesImpl struct {
	store ProviderReadStore
}

func NewProviderQueries(store ProviderReadStore) ProviderQueries {
	return &providerQueriesImpl{store: store}
}

func (q *providerQueriesImpl) ListProviders(ctx context.Context, activeOnly bool) ([]*ProviderView, error) {
	return q.store.ListViews(ctx, activeOnly)
}
