package queries

import (
	"context"

	"capacity-engine/internal/infra"
	"capacity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSlotNotFound = errs.New("capacity slot not found")

type SlotReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	List(ctx context.Context, filter SlotFilter) ([]*SlotView, error)
}

type SlotQueries interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*SlotView, error)
	ListSlots(ctx context.Context, filter SlotFilter) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	store SlotReadStore
}

func NewSlotQueries(store SlotReadStore) SlotQueries {
	return &slotQueriesImpl{store: store}
}

func (q *slotQueriesImpl) GetSlot(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *slotQueriesImpl) ListSlots(ctx context.Context, filter SlotFilter) ([]*SlotView, error) {
	return q.store.List(ctx, filter)
}
