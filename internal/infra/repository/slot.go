package repository

import (
	"context"
	"errors"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

func (r *SlotRepository) Create(ctx context.Context, slot *capacity.Slot) error {
	const query = `
		INSERT INTO capacity_slots
			(id, provider_id, service_type, slot_start, slot_end, max_units, reserved_units, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`

	_, err := r.db.Exec(ctx, query,
		slot.ID(),
		slot.ProviderID(),
		slot.ServiceType().String(),
		slot.Window().Start(),
		slot.Window().End(),
		slot.MaxUnits(),
		slot.ReservedUnits(),
		slot.Notes(),
		slot.CreatedBy(),
	)
	if err != nil {
		return wrapSlotWriteErr("failed to create capacity slot", err)
	}

	return nil
}

func (r *SlotRepository) Update(ctx context.Context, slot *capacity.Slot) error {
	const query = `
		UPDATE capacity_slots
		SET slot_start = $2, slot_end = $3, max_units = $4, notes = $5, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		slot.ID(),
		slot.Window().Start(),
		slot.Window().End(),
		slot.MaxUnits(),
		slot.Notes(),
	)
	if err != nil {
		return wrapSlotWriteErr("failed to update capacity slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("capacity slot not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM capacity_slots WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete capacity slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("capacity slot not found", nil, infra.KindNotFound)
	}

	return nil
}

// HasOverlap is the half-open interval conflict check:
// existing.start < candidate.end AND candidate.start < existing.end.
// Must run inside the same locked transaction as the following write.
func (r *SlotRepository) HasOverlap(ctx context.Context, providerID uuid.UUID, window capacity.TimeWindow, excludeID *uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM capacity_slots
			WHERE provider_id = $1
			  AND slot_start < $3
			  AND slot_end > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, providerID, window.Start(), window.End(), excludeID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check slot overlap", err)
	}

	return exists, nil
}

func (r *SlotRepository) ExistsAtStart(ctx context.Context, providerID uuid.UUID, serviceType capacity.ServiceType, start time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM capacity_slots
			WHERE provider_id = $1 AND service_type = $2 AND slot_start = $3
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, providerID, serviceType.String(), start).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check slot existence", err)
	}

	return exists, nil
}

// AdjustReserved is the oversell guard: a single conditional update that
// only lands when the result stays within [0, max_units].
func (r *SlotRepository) AdjustReserved(ctx context.Context, id uuid.UUID, delta int32) error {
	const query = `
		UPDATE capacity_slots
		SET reserved_units = reserved_units + $2, updated_at = now()
		WHERE id = $1
		  AND reserved_units + $2 >= 0
		  AND reserved_units + $2 <= max_units`

	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return infra.WrapRepoErr("failed to adjust reserved units", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM capacity_slots WHERE id = $1)`, id).Scan(&exists); err != nil {
		return infra.WrapRepoErr("failed to check slot existence", err)
	}
	if !exists {
		return infra.WrapRepoErr("capacity slot not found", nil, infra.KindNotFound)
	}

	return infra.WrapRepoErr("reserved units adjustment violates capacity bounds", nil, infra.KindConflict)
}

func wrapSlotWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolated:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		case pgErrCodeExclusionViolation:
			// DB-level exclusion constraint on (provider_id, tstzrange) is
			// the backstop behind the advisory lock.
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
