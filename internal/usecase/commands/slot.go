package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"capacity-engine/internal/domain/capacity"
	domprovider "capacity-engine/internal/domain/provider"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/pkg/errs"
	"capacity-engine/internal/pkg/patch"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrProviderNotFound      = errs.New("provider not found")
	ErrSlotNotFound          = errs.New("capacity slot not found")
	ErrProviderInactive      = errs.New("provider is inactive")
	ErrServiceTypeMismatch   = errs.New("service type does not match provider")
	ErrInvalidServiceType    = errs.New("invalid service type")
	ErrInvalidTimeRange      = errs.New("invalid time range")
	ErrSlotInPast            = errs.New("slot start must be in the future")
	ErrSlotConflict          = errs.New("slot overlaps an existing slot")
	ErrInvalidMaxUnits       = errs.New("max units must be positive")
	ErrCapacityBelowReserved = errs.New("max units below reserved units")
	ErrHasReservations       = errs.New("slot has reservations")
	ErrInvalidUnitCount      = errs.New("unit count must be positive")
	ErrCapacityExceeded      = errs.New("reservation exceeds slot capacity")
)

type CreateSlotParams struct {
	ProviderID  uuid.UUID
	ServiceType string
	SlotStart   time.Time
	SlotEnd     time.Time
	MaxUnits    int32
	Notes       string
}

type UpdateSlotParams struct {
	SlotStart *time.Time
	SlotEnd   *time.Time
	MaxUnits  *int32
	Notes     *string
}

type SlotCommands interface {
	CreateSlot(ctx context.Context, params CreateSlotParams, actor string) (uuid.UUID, error)
	UpdateSlot(ctx context.Context, slotID uuid.UUID, params UpdateSlotParams, actor string) error
	DeleteSlot(ctx context.Context, slotID uuid.UUID, actor string) error
	// ReserveUnits/ReleaseUnits are the hooks the external order workflow
	// calls; this core only enforces the bounds.
	ReserveUnits(ctx context.Context, slotID uuid.UUID, units int32) error
	ReleaseUnits(ctx context.Context, slotID uuid.UUID, units int32) error
}

type slotCommandsImpl struct {
	uow   shared.UnitOfWork
	audit shared.AuditLog
	clock clock.Clock
}

func NewSlotCommands(uow shared.UnitOfWork, audit shared.AuditLog, clk clock.Clock) SlotCommands {
	return &slotCommandsImpl{uow: uow, audit: audit, clock: clk}
}

func (uc *slotCommandsImpl) CreateSlot(ctx context.Context, params CreateSlotParams, actor string) (uuid.UUID, error) {
	serviceType := capacity.ServiceType(params.ServiceType)
	if !serviceType.IsValid() {
		return uuid.Nil, ErrInvalidServiceType
	}

	var slotID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Serialize the overlap check and insert per provider.
		if err := tx.LockProvider(ctx, params.ProviderID); err != nil {
			return err
		}

		prov, err := tx.Reads().ProviderByID(ctx, params.ProviderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProviderNotFound
			}
			return err
		}
		if err := prov.CanSchedule(serviceType); err != nil {
			return mapProviderErr(err)
		}

		window, err := capacity.NewFutureTimeWindow(params.SlotStart, params.SlotEnd, uc.clock.Now())
		if err != nil {
			return mapWindowErr(err)
		}

		slot, err := capacity.NewSlot(params.ProviderID, serviceType, window, params.MaxUnits, params.Notes, actor)
		if err != nil {
			return errs.Mark(err, ErrInvalidMaxUnits)
		}

		conflict, err := tx.Slots().HasOverlap(ctx, params.ProviderID, window, nil)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}

		if err := tx.Slots().Create(ctx, slot); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotConflict
			}
			return err
		}

		slotID = slot.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.appendAudit(ctx, actor, "slot.create", slotID, map[string]any{
		"provider_id":  params.ProviderID,
		"service_type": params.ServiceType,
		"slot_start":   params.SlotStart,
		"slot_end":     params.SlotEnd,
		"max_units":    params.MaxUnits,
	})

	return slotID, nil
}

func (uc *slotCommandsImpl) UpdateSlot(ctx context.Context, slotID uuid.UUID, params UpdateSlotParams, actor string) error {
	changes := make(map[string]any)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// First read resolves the provider for the lock; the slot is
		// re-read under the lock before any decision is made.
		peek, err := tx.Reads().SlotByID(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if err := tx.LockProvider(ctx, peek.ProviderID()); err != nil {
			return err
		}
		slot, err := tx.Reads().SlotByID(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		timesChanged := params.SlotStart != nil || params.SlotEnd != nil
		if timesChanged {
			newStart := patch.Coalesce(params.SlotStart, slot.Window().Start())
			newEnd := patch.Coalesce(params.SlotEnd, slot.Window().End())

			window, werr := capacity.NewFutureTimeWindow(newStart, newEnd, uc.clock.Now())
			if werr != nil {
				return mapWindowErr(werr)
			}

			id := slot.ID()
			conflict, cerr := tx.Slots().HasOverlap(ctx, slot.ProviderID(), window, &id)
			if cerr != nil {
				return cerr
			}
			if conflict {
				return ErrSlotConflict
			}

			if !window.Start().Equal(slot.Window().Start()) {
				changes["slot_start"] = shared.FieldChange{From: slot.Window().Start(), To: window.Start()}
			}
			if !window.End().Equal(slot.Window().End()) {
				changes["slot_end"] = shared.FieldChange{From: slot.Window().End(), To: window.End()}
			}
			slot.Reschedule(window)
		}

		if params.MaxUnits != nil && *params.MaxUnits != slot.MaxUnits() {
			from := slot.MaxUnits()
			if rerr := slot.ResizeCapacity(*params.MaxUnits); rerr != nil {
				if errors.Is(rerr, capacity.ErrCapacityBelowReserved) {
					return ErrCapacityBelowReserved
				}
				return errs.Mark(rerr, ErrInvalidMaxUnits)
			}
			changes["max_units"] = shared.FieldChange{From: from, To: *params.MaxUnits}
		}

		if params.Notes != nil && *params.Notes != slot.Notes() {
			changes["notes"] = shared.FieldChange{From: slot.Notes(), To: *params.Notes}
			slot.UpdateNotes(*params.Notes)
		}

		if len(changes) == 0 {
			return nil
		}

		return tx.Slots().Update(ctx, slot)
	})
	if err != nil {
		return err
	}

	if len(changes) > 0 {
		uc.appendAudit(ctx, actor, "slot.update", slotID, changes)
	}

	return nil
}

func (uc *slotCommandsImpl) DeleteSlot(ctx context.Context, slotID uuid.UUID, actor string) error {
	var snapshot map[string]any

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		slot, err := tx.Reads().SlotByID(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		if err := slot.CanDelete(); err != nil {
			return ErrHasReservations
		}

		snapshot = map[string]any{
			"provider_id":    slot.ProviderID(),
			"service_type":   slot.ServiceType().String(),
			"slot_start":     slot.Window().Start(),
			"slot_end":       slot.Window().End(),
			"max_units":      slot.MaxUnits(),
			"reserved_units": slot.ReservedUnits(),
		}

		return tx.Slots().Delete(ctx, slotID)
	})
	if err != nil {
		return err
	}

	uc.appendAudit(ctx, actor, "slot.delete", slotID, snapshot)
	return nil
}

func (uc *slotCommandsImpl) ReserveUnits(ctx context.Context, slotID uuid.UUID, units int32) error {
	if units <= 0 {
		return ErrInvalidUnitCount
	}
	return uc.adjustReserved(ctx, slotID, units)
}

func (uc *slotCommandsImpl) ReleaseUnits(ctx context.Context, slotID uuid.UUID, units int32) error {
	if units <= 0 {
		return ErrInvalidUnitCount
	}
	return uc.adjustReserved(ctx, slotID, -units)
}

func (uc *slotCommandsImpl) adjustReserved(ctx context.Context, slotID uuid.UUID, delta int32) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Slots().AdjustReserved(ctx, slotID, delta)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			if infra.IsKind(err, infra.KindConflict) {
				return ErrCapacityExceeded
			}
			return err
		}
		return nil
	})
}

// Audit is best-effort: the domain write has already committed, a dead
// audit table must not block capacity changes.
func (uc *slotCommandsImpl) appendAudit(ctx context.Context, actor, action string, entityID uuid.UUID, changes map[string]any) {
	entry := shared.AuditEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "capacity_slot",
		EntityID:   entityID,
		Changes:    changes,
	}
	if err := uc.audit.Append(ctx, entry); err != nil {
		slog.Warn("audit log append failed", "action", action, "entity_id", entityID, "error", err.Error())
	}
}

func mapProviderErr(err error) error {
	switch {
	case errors.Is(err, domprovider.ErrInactive):
		return ErrProviderInactive
	case errors.Is(err, domprovider.ErrServiceMismatch):
		return ErrServiceTypeMismatch
	default:
		return err
	}
}

func mapWindowErr(err error) error {
	switch {
	case errors.Is(err, capacity.ErrWindowInPast):
		return ErrSlotInPast
	case errors.Is(err, capacity.ErrInvalidTimeRange):
		return ErrInvalidTimeRange
	default:
		return err
	}
}
