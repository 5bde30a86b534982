package queries

import (
	"context"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/pkg/config"
	"capacity-engine/internal/pkg/errs"
)

var ErrInvalidMetricsRange = errs.New("metrics range end must not be before start")

// defaultMetricsDays is the window reported when the caller gives no range.
const defaultMetricsDays = 14

const dateLayout = "2006-01-02"

type AggregateView struct {
	TotalSlots         int32 `json:"total_slots"`
	MaxUnits           int32 `json:"max_units"`
	ReservedUnits      int32 `json:"reserved_units"`
	AvailableUnits     int32 `json:"available_units"`
	UtilizationPercent int32 `json:"utilization_percent"`
}

type DayMetricsView struct {
	Date             string `json:"date"`
	SlotCount        int32  `json:"slot_count"`
	MaxUnits         int32  `json:"max_units"`
	ReservedUnits    int32  `json:"reserved_units"`
	AvailableUnits   int32  `json:"available_units"`
	LowCapacitySlots int32  `json:"low_capacity_slots"`
}

type MetricsReport struct {
	RangeStart       string                   `json:"range_start"`
	RangeEnd         string                   `json:"range_end"`
	Totals           AggregateView            `json:"totals"`
	ByService        map[string]AggregateView `json:"by_service"`
	ByDate           []DayMetricsView         `json:"by_date"`
	LowCapacityDates []string                 `json:"low_capacity_dates"`
	NoCapacityDates  []string                 `json:"no_capacity_dates"`
}

type StatsReadStore interface {
	StatsInRange(ctx context.Context, rangeStart, rangeEnd time.Time, serviceType *capacity.ServiceType) ([]capacity.SlotStats, error)
}

type MetricsQueries interface {
	// Report aggregates slot utilization over [rangeStart, rangeEnd]
	// (dates inclusive); nil bounds default to today and today plus two
	// weeks. Always computed from current slot rows, never cached.
	Report(ctx context.Context, rangeStart, rangeEnd *time.Time, serviceType *capacity.ServiceType) (*MetricsReport, error)
}

type metricsQueriesImpl struct {
	store StatsReadStore
	clock clock.Clock
	cfg   config.CapacityConfig
}

func NewMetricsQueries(store StatsReadStore, clk clock.Clock, cfg config.CapacityConfig) MetricsQueries {
	return &metricsQueriesImpl{store: store, clock: clk, cfg: cfg}
}

func (q *metricsQueriesImpl) Report(ctx context.Context, rangeStart, rangeEnd *time.Time, serviceType *capacity.ServiceType) (*MetricsReport, error) {
	now := q.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	start := today
	if rangeStart != nil {
		start = *rangeStart
	}
	end := start.AddDate(0, 0, defaultMetricsDays-1)
	if rangeEnd != nil {
		end = *rangeEnd
	}
	if end.Before(start) {
		return nil, ErrInvalidMetricsRange
	}

	// StatsInRange bounds are [start, end); extend by one day to keep the
	// last date inclusive.
	stats, err := q.store.StatsInRange(ctx, start, end.AddDate(0, 0, 1), serviceType)
	if err != nil {
		return nil, err
	}

	report := capacity.ComputeMetrics(stats, start, end, capacity.MetricsConfig{
		LowThreshold:    q.cfg.LowThreshold,
		IsClosedWeekday: q.cfg.IsClosedWeekday,
	})

	return toMetricsReport(report), nil
}

func toMetricsReport(report capacity.Report) *MetricsReport {
	out := &MetricsReport{
		RangeStart:       report.RangeStart.Format(dateLayout),
		RangeEnd:         report.RangeEnd.Format(dateLayout),
		Totals:           toAggregateView(report.Totals),
		ByService:        make(map[string]AggregateView, len(report.ByService)),
		ByDate:           make([]DayMetricsView, 0, len(report.Days)),
		LowCapacityDates: formatDates(report.LowCapacityDates),
		NoCapacityDates:  formatDates(report.NoCapacityDates),
	}

	for serviceType, agg := range report.ByService {
		out.ByService[serviceType.String()] = toAggregateView(agg)
	}
	for _, day := range report.Days {
		out.ByDate = append(out.ByDate, DayMetricsView{
			Date:             day.Date.Format(dateLayout),
			SlotCount:        day.SlotCount,
			MaxUnits:         day.MaxUnits,
			ReservedUnits:    day.ReservedUnits,
			AvailableUnits:   day.AvailableUnits,
			LowCapacitySlots: day.LowCapacitySlots,
		})
	}

	return out
}

func toAggregateView(agg capacity.Aggregate) AggregateView {
	return AggregateView{
		TotalSlots:         agg.TotalSlots,
		MaxUnits:           agg.MaxUnits,
		ReservedUnits:      agg.ReservedUnits,
		AvailableUnits:     agg.AvailableUnits,
		UtilizationPercent: agg.UtilizationPercent,
	}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out
}
