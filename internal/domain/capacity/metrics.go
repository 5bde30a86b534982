package capacity

import (
	"math"
	"time"
)

// SlotStats is the minimal slot projection the metrics calculator needs.
type SlotStats struct {
	ServiceType   ServiceType
	Start         time.Time
	MaxUnits      int32
	ReservedUnits int32
}

func (s SlotStats) AvailableUnits() int32 {
	return s.MaxUnits - s.ReservedUnits
}

type Aggregate struct {
	TotalSlots         int32
	MaxUnits           int32
	ReservedUnits      int32
	AvailableUnits     int32
	UtilizationPercent int32
}

// DayMetrics aggregates all slots whose start falls on one calendar date.
type DayMetrics struct {
	Date             time.Time
	SlotCount        int32
	MaxUnits         int32
	ReservedUnits    int32
	AvailableUnits   int32
	LowCapacitySlots int32
}

type Report struct {
	RangeStart       time.Time
	RangeEnd         time.Time
	Totals           Aggregate
	ByService        map[ServiceType]Aggregate
	Days             []DayMetrics
	LowCapacityDates []time.Time
	NoCapacityDates  []time.Time
}

type MetricsConfig struct {
	// LowThreshold marks a date low-capacity when 0 < available < threshold.
	LowThreshold int32
	// IsClosedWeekday excludes universally closed days from gap detection.
	IsClosedWeekday func(time.Weekday) bool
}

// ComputeMetrics aggregates slots into per-day and per-service utilization
// figures over [rangeStart, rangeEnd] and classifies dates as low- or
// no-capacity. Pure aggregation, recomputed on demand. The day list is an
// ordered slice covering every date in range, built up front, so a date
// with zero slots still appears (and can be flagged as a gap).
func ComputeMetrics(slots []SlotStats, rangeStart, rangeEnd time.Time, cfg MetricsConfig) Report {
	loc := rangeStart.Location()
	first := truncateToDate(rangeStart, loc)
	last := truncateToDate(rangeEnd, loc)

	var days []DayMetrics
	index := make(map[time.Time]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		index[d] = len(days)
		days = append(days, DayMetrics{Date: d})
	}

	report := Report{
		RangeStart: first,
		RangeEnd:   last,
		ByService:  make(map[ServiceType]Aggregate),
	}

	for _, slot := range slots {
		day := truncateToDate(slot.Start, loc)
		i, ok := index[day]
		if !ok {
			continue
		}

		days[i].SlotCount++
		days[i].MaxUnits += slot.MaxUnits
		days[i].ReservedUnits += slot.ReservedUnits
		days[i].AvailableUnits += slot.AvailableUnits()
		if avail := slot.AvailableUnits(); avail > 0 && avail < cfg.LowThreshold {
			days[i].LowCapacitySlots++
		}

		report.Totals.TotalSlots++
		report.Totals.MaxUnits += slot.MaxUnits
		report.Totals.ReservedUnits += slot.ReservedUnits
		report.Totals.AvailableUnits += slot.AvailableUnits()

		svc := report.ByService[slot.ServiceType]
		svc.TotalSlots++
		svc.MaxUnits += slot.MaxUnits
		svc.ReservedUnits += slot.ReservedUnits
		svc.AvailableUnits += slot.AvailableUnits()
		report.ByService[slot.ServiceType] = svc
	}

	report.Totals.UtilizationPercent = utilizationPercent(report.Totals.ReservedUnits, report.Totals.AvailableUnits)
	for st, agg := range report.ByService {
		agg.UtilizationPercent = utilizationPercent(agg.ReservedUnits, agg.AvailableUnits)
		report.ByService[st] = agg
	}

	for _, day := range days {
		switch {
		case day.SlotCount == 0:
			if cfg.IsClosedWeekday == nil || !cfg.IsClosedWeekday(day.Date.Weekday()) {
				report.NoCapacityDates = append(report.NoCapacityDates, day.Date)
			}
		case day.MaxUnits > 0 && day.AvailableUnits == 0:
			report.NoCapacityDates = append(report.NoCapacityDates, day.Date)
		case day.AvailableUnits > 0 && day.AvailableUnits < cfg.LowThreshold:
			report.LowCapacityDates = append(report.LowCapacityDates, day.Date)
		}
	}

	report.Days = days
	return report
}

func utilizationPercent(reserved, available int32) int32 {
	total := reserved + available
	if total == 0 {
		return 0
	}
	return int32(math.Round(float64(reserved) / float64(total) * 100))
}

func truncateToDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
