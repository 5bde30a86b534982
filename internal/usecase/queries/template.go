package queries

import (
	"context"

	"github.com/google/uuid"
)

type TemplateReadStore interface {
	ListViews(ctx context.Context, providerID *uuid.UUID) ([]*TemplateView, error)
}

type TemplateQueries interface {
	ListTemplates(ctx context.Context, providerID *uuid.UUID) ([]*TemplateView, error)
}

type templateQueriesImpl struct {
	store TemplateReadStore
}

func NewTemplateQueries(store TemplateReadStore) TemplateQueries {
	return &templateQueriesImpl{store: store}
}

func (q *templateQueriesImpl) ListTemplates(ctx context.Context, providerID *uuid.UUID) ([]*TemplateView, error) {
	return q.store.ListViews(ctx, providerID)
}
