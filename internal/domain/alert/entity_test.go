//go:build unit

package alert_test

import (
	"testing"
	"time"

	"capacity-engine/internal/domain/alert"
	"capacity-engine/internal/domain/capacity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNoCapacity(t *testing.T) {
	horizonStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return horizonStart.AddDate(0, 0, offset) }

	tests := []struct {
		name string
		date time.Time
		want alert.Severity
	}{
		{name: "today", date: day(0), want: alert.SeverityCritical},
		{name: "tomorrow", date: day(1), want: alert.SeverityCritical},
		{name: "two days out", date: day(2), want: alert.SeverityWarning},
		{name: "end of week", date: day(6), want: alert.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, alert.ClassifyNoCapacity(tt.date, horizonStart))
		})
	}
}

func TestNewAlerts(t *testing.T) {
	horizonStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("no-capacity alert", func(t *testing.T) {
		a := alert.NewNoCapacityAlert(horizonStart.AddDate(0, 0, 1), horizonStart, capacity.ServiceLaundry)
		assert.Equal(t, alert.TypeNoCapacity, a.Type())
		assert.Equal(t, alert.SeverityCritical, a.Severity())
		require.NotNil(t, a.ServiceType())
		assert.Equal(t, capacity.ServiceLaundry, *a.ServiceType())
		assert.False(t, a.Resolved())
	})

	t.Run("low-capacity alert is informational", func(t *testing.T) {
		a := alert.NewLowCapacityAlert(horizonStart.AddDate(0, 0, 3), capacity.ServiceCleaning, 2)
		assert.Equal(t, alert.TypeLowCapacity, a.Type())
		assert.Equal(t, alert.SeverityInfo, a.Severity())
		assert.Equal(t, int32(2), a.SlotCount())
	})
}
