package commands

import (
	"context"
	"log/slog"
	"time"

	"capacity-engine/internal/domain/alert"
	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/pkg/config"
	"capacity-engine/internal/pkg/errs"
	"capacity-engine/internal/usecase/shared"
)

type AlertSummary struct {
	Type        alert.Type
	Severity    alert.Severity
	Date        time.Time
	ServiceType capacity.ServiceType
	SlotCount   int32
}

type AlertRunResult struct {
	Created []AlertSummary
	Skipped int
	RanAt   time.Time
}

type AlertCommands interface {
	// RunCapacityAlerts scans the short alerting horizon per service type
	// and raises deduplicated no-capacity and low-capacity alerts.
	RunCapacityAlerts(ctx context.Context) (*AlertRunResult, error)
}

type alertCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.CapacityConfig
}

func NewAlertCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.CapacityConfig) AlertCommands {
	return &alertCommandsImpl{uow: uow, clock: clk, cfg: cfg}
}

func (uc *alertCommandsImpl) RunCapacityAlerts(ctx context.Context) (*AlertRunResult, error) {
	now := uc.clock.Now()
	horizonStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lastDay := horizonStart.AddDate(0, 0, uc.cfg.AlertHorizonDays-1)
	rangeEnd := horizonStart.AddDate(0, 0, uc.cfg.AlertHorizonDays)

	result := &AlertRunResult{RanAt: now}
	metricsCfg := capacity.MetricsConfig{
		LowThreshold:    uc.cfg.LowThreshold,
		IsClosedWeekday: uc.cfg.IsClosedWeekday,
	}

	// Each service type is scanned on its own: laundry running dry must
	// not mask a cleaning shortage, and vice versa.
	for _, serviceType := range capacity.ServiceTypes() {
		st := serviceType
		stats, err := uc.uow.Reads().SlotStatsInRange(ctx, horizonStart, rangeEnd, &st)
		if err != nil {
			return nil, errs.Wrapf(err, "failed to load slot stats for %s", st)
		}

		report := capacity.ComputeMetrics(stats, horizonStart, lastDay, metricsCfg)

		for _, date := range report.NoCapacityDates {
			uc.raise(ctx, alert.NewNoCapacityAlert(date, horizonStart, st), now, result)
		}
		for _, date := range report.LowCapacityDates {
			uc.raise(ctx, alert.NewLowCapacityAlert(date, st, lowSlotCount(report, date)), now, result)
		}
	}

	slog.Info("capacity alert scan finished",
		"created", len(result.Created),
		"skipped", result.Skipped,
	)
	return result, nil
}

// raise inserts one alert unless an unresolved alert of the same type and
// severity was created within the dedup window. Insert failures are logged
// and skipped so one bad row cannot abort the whole scan.
func (uc *alertCommandsImpl) raise(ctx context.Context, a *alert.Alert, now time.Time, result *AlertRunResult) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		recent, err := tx.Alerts().HasRecentUnresolved(ctx, a.Type(), a.Severity(), now.Add(-alert.DedupWindow))
		if err != nil {
			return err
		}
		if recent {
			result.Skipped++
			return nil
		}

		if err := tx.Alerts().Create(ctx, a); err != nil {
			return err
		}

		summary := AlertSummary{
			Type:      a.Type(),
			Severity:  a.Severity(),
			Date:      a.Date(),
			SlotCount: a.SlotCount(),
		}
		if st := a.ServiceType(); st != nil {
			summary.ServiceType = *st
		}
		result.Created = append(result.Created, summary)
		return nil
	})
	if err != nil {
		slog.Warn("failed to raise capacity alert",
			"type", a.Type(),
			"severity", a.Severity(),
			"date", a.Date().Format("2006-01-02"),
			"error", err.Error(),
		)
	}
}

func lowSlotCount(report capacity.Report, date time.Time) int32 {
	for _, day := range report.Days {
		if day.Date.Equal(date) {
			return day.LowCapacitySlots
		}
	}
	return 0
}
