//go:build unit

package capacity_test

import (
	"testing"
	"time"

	"capacity-engine/internal/domain/capacity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end time.Time) capacity.TimeWindow {
	t.Helper()
	w, err := capacity.NewTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestNewTimeWindow(t *testing.T) {
	base := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	t.Run("valid window", func(t *testing.T) {
		w, err := capacity.NewTimeWindow(base, base.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, w.Start())
		assert.Equal(t, 2*time.Hour, w.Duration())
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := capacity.NewTimeWindow(base, base)
		assert.ErrorIs(t, err, capacity.ErrInvalidTimeRange)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := capacity.NewTimeWindow(base, base.Add(-time.Minute))
		assert.ErrorIs(t, err, capacity.ErrInvalidTimeRange)
	})
}

func TestNewFutureTimeWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("start after now", func(t *testing.T) {
		_, err := capacity.NewFutureTimeWindow(now.Add(time.Hour), now.Add(2*time.Hour), now)
		assert.NoError(t, err)
	})

	t.Run("start equal to now", func(t *testing.T) {
		_, err := capacity.NewFutureTimeWindow(now, now.Add(time.Hour), now)
		assert.ErrorIs(t, err, capacity.ErrWindowInPast)
	})

	t.Run("start before now", func(t *testing.T) {
		_, err := capacity.NewFutureTimeWindow(now.Add(-time.Hour), now.Add(time.Hour), now)
		assert.ErrorIs(t, err, capacity.ErrWindowInPast)
	})
}

func TestTimeWindowOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	h := func(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

	tests := []struct {
		name    string
		a, b    capacity.TimeWindow
		overlap bool
	}{
		{
			name:    "identical windows",
			a:       mustWindow(t, h(0), h(2)),
			b:       mustWindow(t, h(0), h(2)),
			overlap: true,
		},
		{
			name:    "partial overlap",
			a:       mustWindow(t, h(0), h(2)),
			b:       mustWindow(t, h(1), h(3)),
			overlap: true,
		},
		{
			name:    "one contains the other",
			a:       mustWindow(t, h(0), h(4)),
			b:       mustWindow(t, h(1), h(2)),
			overlap: true,
		},
		{
			name:    "touching end to start is allowed",
			a:       mustWindow(t, h(0), h(2)),
			b:       mustWindow(t, h(2), h(4)),
			overlap: false,
		},
		{
			name:    "touching start to end is allowed",
			a:       mustWindow(t, h(2), h(4)),
			b:       mustWindow(t, h(0), h(2)),
			overlap: false,
		},
		{
			name:    "fully disjoint",
			a:       mustWindow(t, h(0), h(1)),
			b:       mustWindow(t, h(3), h(4)),
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.overlap, tt.b.Overlaps(tt.a))
		})
	}
}
