//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"capacity-engine/internal/domain/capacity"
	domprovider "capacity-engine/internal/domain/provider"
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/usecase/commands"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday

func activeProvider(serviceType capacity.ServiceType) *domprovider.Provider {
	return domprovider.Reconstruct(uuid.New(), "Test Laundry", serviceType, true, 10, testNow)
}

func futureSlot(t *testing.T, providerID uuid.UUID, serviceType capacity.ServiceType, startOffset, endOffset time.Duration, maxUnits, reserved int32) *capacity.Slot {
	t.Helper()
	window, err := capacity.NewTimeWindow(testNow.Add(startOffset), testNow.Add(endOffset))
	require.NoError(t, err)
	slot, err := capacity.ReconstructSlot(
		uuid.New(), providerID, serviceType, window,
		maxUnits, reserved, "", "admin", testNow, testNow,
	)
	require.NoError(t, err)
	return slot
}

func createParams(providerID uuid.UUID) commands.CreateSlotParams {
	return commands.CreateSlotParams{
		ProviderID:  providerID,
		ServiceType: "LAUNDRY",
		SlotStart:   testNow.Add(24 * time.Hour),
		SlotEnd:     testNow.Add(26 * time.Hour),
		MaxUnits:    10,
	}
}

func newSlotCommands(store *fakeStore, audit *fakeAuditLog) commands.SlotCommands {
	return commands.NewSlotCommands(store, audit, clock.NewMockClock(testNow))
}

func TestCreateSlot(t *testing.T) {
	t.Run("creates and audits", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		audit := &fakeAuditLog{}
		uc := newSlotCommands(store, audit)

		slotID, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		require.NoError(t, err)

		created, ok := store.slots[slotID]
		require.True(t, ok)
		assert.Equal(t, int32(0), created.ReservedUnits())
		assert.Equal(t, "admin-1", created.CreatedBy())
		assert.Equal(t, []uuid.UUID{prov.ID()}, store.lockedProviders)

		require.Len(t, audit.entries, 1)
		assert.Equal(t, "slot.create", audit.entries[0].Action)
		assert.Equal(t, slotID, audit.entries[0].EntityID)
	})

	t.Run("unknown provider", func(t *testing.T) {
		store := newFakeStore()
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), createParams(uuid.New()), "admin-1")
		assert.ErrorIs(t, err, commands.ErrProviderNotFound)
	})

	t.Run("inactive provider", func(t *testing.T) {
		store := newFakeStore()
		prov := domprovider.Reconstruct(uuid.New(), "Closed", capacity.ServiceLaundry, false, 10, testNow)
		store.addProvider(prov)
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		assert.ErrorIs(t, err, commands.ErrProviderInactive)
	})

	t.Run("service type mismatch", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceCleaning)
		store.addProvider(prov)
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		assert.ErrorIs(t, err, commands.ErrServiceTypeMismatch)
	})

	t.Run("invalid service type", func(t *testing.T) {
		store := newFakeStore()
		params := createParams(uuid.New())
		params.ServiceType = "IRONING"
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), params, "admin-1")
		assert.ErrorIs(t, err, commands.ErrInvalidServiceType)
	})

	t.Run("start in the past", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		params := createParams(prov.ID())
		params.SlotStart = testNow.Add(-time.Hour)
		params.SlotEnd = testNow.Add(time.Hour)
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), params, "admin-1")
		assert.ErrorIs(t, err, commands.ErrSlotInPast)
	})

	t.Run("overlap with existing slot", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		store.addSlot(futureSlot(t, prov.ID(), capacity.ServiceLaundry, 23*time.Hour, 25*time.Hour, 10, 0))
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		assert.ErrorIs(t, err, commands.ErrSlotConflict)
		assert.Len(t, store.slots, 1)
	})

	t.Run("touching slot is not a conflict", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		store.addSlot(futureSlot(t, prov.ID(), capacity.ServiceLaundry, 22*time.Hour, 24*time.Hour, 10, 0))
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		assert.NoError(t, err)
		assert.Len(t, store.slots, 2)
	})

	t.Run("other provider overlap is fine", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		store.addSlot(futureSlot(t, uuid.New(), capacity.ServiceLaundry, 23*time.Hour, 25*time.Hour, 10, 0))
		uc := newSlotCommands(store, &fakeAuditLog{})

		_, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		assert.NoError(t, err)
	})

	t.Run("audit failure does not fail the command", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		audit := &fakeAuditLog{err: errors.New("audit table down")}
		uc := newSlotCommands(store, audit)

		_, err := uc.CreateSlot(context.Background(), createParams(prov.ID()), "admin-1")
		assert.NoError(t, err)
	})
}

func TestUpdateSlot(t *testing.T) {
	setup := func(t *testing.T, reserved int32) (*fakeStore, *fakeAuditLog, *capacity.Slot) {
		t.Helper()
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		slot := futureSlot(t, prov.ID(), capacity.ServiceLaundry, 24*time.Hour, 26*time.Hour, 10, reserved)
		store.addSlot(slot)
		return store, &fakeAuditLog{}, slot
	}

	t.Run("reschedule within own window", func(t *testing.T) {
		store, audit, slot := setup(t, 0)
		uc := newSlotCommands(store, audit)

		newStart := testNow.Add(25 * time.Hour)
		err := uc.UpdateSlot(context.Background(), slot.ID(), commands.UpdateSlotParams{SlotStart: &newStart}, "admin-1")
		require.NoError(t, err)

		assert.Equal(t, newStart, store.slots[slot.ID()].Window().Start())
		require.Len(t, audit.entries, 1)
		change, ok := audit.entries[0].Changes["slot_start"].(shared.FieldChange)
		require.True(t, ok)
		assert.Equal(t, newStart, change.To)
		assert.NotContains(t, audit.entries[0].Changes, "slot_end")
	})

	t.Run("reschedule onto another slot conflicts", func(t *testing.T) {
		store, audit, slot := setup(t, 0)
		other := futureSlot(t, slot.ProviderID(), capacity.ServiceLaundry, 28*time.Hour, 30*time.Hour, 10, 0)
		store.addSlot(other)
		uc := newSlotCommands(store, audit)

		newStart := testNow.Add(27 * time.Hour)
		newEnd := testNow.Add(29 * time.Hour)
		err := uc.UpdateSlot(context.Background(), slot.ID(), commands.UpdateSlotParams{SlotStart: &newStart, SlotEnd: &newEnd}, "admin-1")
		assert.ErrorIs(t, err, commands.ErrSlotConflict)
	})

	t.Run("shrink below reserved", func(t *testing.T) {
		store, audit, slot := setup(t, 5)
		uc := newSlotCommands(store, audit)

		maxUnits := int32(3)
		err := uc.UpdateSlot(context.Background(), slot.ID(), commands.UpdateSlotParams{MaxUnits: &maxUnits}, "admin-1")
		assert.ErrorIs(t, err, commands.ErrCapacityBelowReserved)
	})

	t.Run("no-op patch writes no audit", func(t *testing.T) {
		store, audit, slot := setup(t, 0)
		uc := newSlotCommands(store, audit)

		err := uc.UpdateSlot(context.Background(), slot.ID(), commands.UpdateSlotParams{}, "admin-1")
		require.NoError(t, err)
		assert.Empty(t, audit.entries)
	})

	t.Run("missing slot", func(t *testing.T) {
		store, audit, _ := setup(t, 0)
		uc := newSlotCommands(store, audit)

		err := uc.UpdateSlot(context.Background(), uuid.New(), commands.UpdateSlotParams{}, "admin-1")
		assert.ErrorIs(t, err, commands.ErrSlotNotFound)
	})
}

func TestDeleteSlot(t *testing.T) {
	t.Run("deletes empty slot", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		slot := futureSlot(t, prov.ID(), capacity.ServiceLaundry, 24*time.Hour, 26*time.Hour, 10, 0)
		store.addSlot(slot)
		audit := &fakeAuditLog{}
		uc := newSlotCommands(store, audit)

		require.NoError(t, uc.DeleteSlot(context.Background(), slot.ID(), "admin-1"))
		assert.Empty(t, store.slots)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, "slot.delete", audit.entries[0].Action)
	})

	t.Run("refuses slot with reservations", func(t *testing.T) {
		store := newFakeStore()
		prov := activeProvider(capacity.ServiceLaundry)
		store.addProvider(prov)
		slot := futureSlot(t, prov.ID(), capacity.ServiceLaundry, 24*time.Hour, 26*time.Hour, 10, 2)
		store.addSlot(slot)
		uc := newSlotCommands(store, &fakeAuditLog{})

		err := uc.DeleteSlot(context.Background(), slot.ID(), "admin-1")
		assert.ErrorIs(t, err, commands.ErrHasReservations)
		assert.Len(t, store.slots, 1)
	})
}

func TestReserveAndReleaseUnits(t *testing.T) {
	setup := func(t *testing.T, maxUnits, reserved int32) (*fakeStore, *capacity.Slot) {
		t.Helper()
		store := newFakeStore()
		slot := futureSlot(t, uuid.New(), capacity.ServiceLaundry, 24*time.Hour, 26*time.Hour, maxUnits, reserved)
		store.addSlot(slot)
		return store, slot
	}

	t.Run("reserve within capacity", func(t *testing.T) {
		store, slot := setup(t, 10, 3)
		uc := newSlotCommands(store, &fakeAuditLog{})

		require.NoError(t, uc.ReserveUnits(context.Background(), slot.ID(), 7))
		assert.Equal(t, int32(10), store.slots[slot.ID()].ReservedUnits())
	})

	t.Run("reserve beyond capacity", func(t *testing.T) {
		store, slot := setup(t, 10, 3)
		uc := newSlotCommands(store, &fakeAuditLog{})

		err := uc.ReserveUnits(context.Background(), slot.ID(), 8)
		assert.ErrorIs(t, err, commands.ErrCapacityExceeded)
		assert.Equal(t, int32(3), store.slots[slot.ID()].ReservedUnits())
	})

	t.Run("release below zero", func(t *testing.T) {
		store, slot := setup(t, 10, 3)
		uc := newSlotCommands(store, &fakeAuditLog{})

		err := uc.ReleaseUnits(context.Background(), slot.ID(), 4)
		assert.ErrorIs(t, err, commands.ErrCapacityExceeded)
	})

	t.Run("non-positive units rejected", func(t *testing.T) {
		store, slot := setup(t, 10, 3)
		uc := newSlotCommands(store, &fakeAuditLog{})

		assert.ErrorIs(t, uc.ReserveUnits(context.Background(), slot.ID(), 0), commands.ErrInvalidUnitCount)
		assert.ErrorIs(t, uc.ReleaseUnits(context.Background(), slot.ID(), -1), commands.ErrInvalidUnitCount)
	})

	t.Run("missing slot", func(t *testing.T) {
		store, _ := setup(t, 10, 0)
		uc := newSlotCommands(store, &fakeAuditLog{})

		assert.ErrorIs(t, uc.ReserveUnits(context.Background(), uuid.New(), 1), commands.ErrSlotNotFound)
	})
}
