//go:build unit

package capacity_test

import (
	"testing"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlot(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, slot)

		assert.NotEqual(t, uuid.Nil, slot.ID())
		assert.Equal(t, int32(10), slot.MaxUnits())
		assert.Equal(t, int32(0), slot.ReservedUnits())
		assert.Equal(t, int32(10), slot.AvailableUnits())
		assert.Equal(t, capacity.StatusAvailable, slot.Status())
	})

	t.Run("zero max units", func(t *testing.T) {
		_, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.MaxUnits = 0 }).
			BuildDomain()
		assert.ErrorIs(t, err, capacity.ErrNonPositiveMaxUnits)
	})

	t.Run("negative max units", func(t *testing.T) {
		_, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.MaxUnits = -1 }).
			BuildDomain()
		assert.ErrorIs(t, err, capacity.ErrNonPositiveMaxUnits)
	})
}

func TestReconstructSlot(t *testing.T) {
	t.Run("reserved exceeds max", func(t *testing.T) {
		_, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.ReservedUnits = 11 }).
			BuildReconstructed()
		assert.ErrorIs(t, err, capacity.ErrReservedExceedsMax)
	})

	t.Run("negative reserved", func(t *testing.T) {
		_, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.ReservedUnits = -1 }).
			BuildReconstructed()
		assert.ErrorIs(t, err, capacity.ErrNegativeReservedUnits)
	})
}

func TestSlotResizeCapacity(t *testing.T) {
	t.Run("shrink above reserved", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.ReservedUnits = 3 }).
			BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, slot.ResizeCapacity(5))
		assert.Equal(t, int32(5), slot.MaxUnits())
		assert.Equal(t, int32(2), slot.AvailableUnits())
	})

	t.Run("shrink below reserved", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.ReservedUnits = 3 }).
			BuildReconstructed()
		require.NoError(t, err)

		err = slot.ResizeCapacity(2)
		assert.ErrorIs(t, err, capacity.ErrCapacityBelowReserved)
		assert.Equal(t, int32(10), slot.MaxUnits())
	})

	t.Run("shrink to exactly reserved", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.ReservedUnits = 3 }).
			BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, slot.ResizeCapacity(3))
		assert.Equal(t, int32(0), slot.AvailableUnits())
		assert.Equal(t, capacity.StatusFull, slot.Status())
	})

	t.Run("resize to zero", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().BuildReconstructed()
		require.NoError(t, err)
		assert.ErrorIs(t, slot.ResizeCapacity(0), capacity.ErrNonPositiveMaxUnits)
	})
}

func TestSlotCanDelete(t *testing.T) {
	t.Run("no reservations", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().BuildReconstructed()
		require.NoError(t, err)
		assert.NoError(t, slot.CanDelete())
	})

	t.Run("with reservations", func(t *testing.T) {
		slot, err := builder.NewSlotBuilder().
			With(func(b *builder.SlotBuilder) { b.ReservedUnits = 1 }).
			BuildReconstructed()
		require.NoError(t, err)
		assert.ErrorIs(t, slot.CanDelete(), capacity.ErrHasReservations)
	})
}

func TestSlotDerivedFields(t *testing.T) {
	tests := []struct {
		name        string
		maxUnits    int32
		reserved    int32
		available   int32
		utilization int32
		status      capacity.SlotStatus
	}{
		{name: "empty", maxUnits: 10, reserved: 0, available: 10, utilization: 0, status: capacity.StatusAvailable},
		{name: "partially booked", maxUnits: 10, reserved: 4, available: 6, utilization: 40, status: capacity.StatusPartial},
		{name: "rounded utilization", maxUnits: 3, reserved: 1, available: 2, utilization: 33, status: capacity.StatusPartial},
		{name: "full", maxUnits: 10, reserved: 10, available: 0, utilization: 100, status: capacity.StatusFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := builder.NewSlotBuilder().
				With(func(b *builder.SlotBuilder) {
					b.MaxUnits = tt.maxUnits
					b.ReservedUnits = tt.reserved
				}).
				BuildReconstructed()
			require.NoError(t, err)

			assert.Equal(t, tt.available, slot.AvailableUnits())
			assert.Equal(t, tt.utilization, slot.UtilizationPercent())
			assert.Equal(t, tt.status, slot.Status())
		})
	}
}
