//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/pkg/config"
	"capacity-engine/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metricsNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday

type fakeStatsStore struct {
	stats []capacity.SlotStats

	gotStart, gotEnd time.Time
	gotService       *capacity.ServiceType
}

func (f *fakeStatsStore) StatsInRange(_ context.Context, rangeStart, rangeEnd time.Time, serviceType *capacity.ServiceType) ([]capacity.SlotStats, error) {
	f.gotStart, f.gotEnd = rangeStart, rangeEnd
	f.gotService = serviceType
	return f.stats, nil
}

func newMetricsQueries(store *fakeStatsStore) queries.MetricsQueries {
	cfg := config.CapacityConfig{
		LowThreshold:   5,
		ClosedWeekdays: []int{0}, // Sunday
	}
	return queries.NewMetricsQueries(store, clock.NewMockClock(metricsNow), cfg)
}

func TestMetricsReport(t *testing.T) {
	t.Run("defaults to a two week window from today", func(t *testing.T) {
		store := &fakeStatsStore{}
		q := newMetricsQueries(store)

		report, err := q.Report(context.Background(), nil, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "2026-03-02", report.RangeStart)
		assert.Equal(t, "2026-03-15", report.RangeEnd)
		assert.Len(t, report.ByDate, 14)
		// Store bound is exclusive, one day past the inclusive range end.
		assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), store.gotEnd)
		assert.Nil(t, store.gotService)
	})

	t.Run("aggregates per service and flags gap dates", func(t *testing.T) {
		store := &fakeStatsStore{stats: []capacity.SlotStats{
			{ServiceType: capacity.ServiceLaundry, Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), MaxUnits: 10, ReservedUnits: 8},
			{ServiceType: capacity.ServiceCleaning, Start: time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), MaxUnits: 10, ReservedUnits: 2},
			{ServiceType: capacity.ServiceLaundry, Start: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), MaxUnits: 4, ReservedUnits: 4},
		}}
		q := newMetricsQueries(store)

		start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
		report, err := q.Report(context.Background(), &start, &end, nil)
		require.NoError(t, err)

		assert.Equal(t, int32(3), report.Totals.TotalSlots)
		assert.Equal(t, int32(24), report.Totals.MaxUnits)
		assert.Equal(t, int32(14), report.Totals.ReservedUnits)
		assert.Equal(t, int32(58), report.Totals.UtilizationPercent)

		assert.Equal(t, int32(12), report.ByService["LAUNDRY"].ReservedUnits)
		assert.Equal(t, int32(2), report.ByService["CLEANING"].ReservedUnits)

		require.Len(t, report.ByDate, 3)
		assert.Equal(t, int32(2), report.ByDate[0].SlotCount)
		assert.Equal(t, int32(1), report.ByDate[0].LowCapacitySlots)

		// Tuesday is booked solid, Wednesday has no slots at all.
		assert.Equal(t, []string{"2026-03-03", "2026-03-04"}, report.NoCapacityDates)
		assert.Empty(t, report.LowCapacityDates)
	})

	t.Run("service type filter is forwarded to the store", func(t *testing.T) {
		store := &fakeStatsStore{}
		q := newMetricsQueries(store)

		st := capacity.ServiceCleaning
		_, err := q.Report(context.Background(), nil, nil, &st)
		require.NoError(t, err)
		require.NotNil(t, store.gotService)
		assert.Equal(t, capacity.ServiceCleaning, *store.gotService)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		q := newMetricsQueries(&fakeStatsStore{})

		start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		_, err := q.Report(context.Background(), &start, &end, nil)
		assert.ErrorIs(t, err, queries.ErrInvalidMetricsRange)
	})
}
