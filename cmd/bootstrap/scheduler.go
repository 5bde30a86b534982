package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"capacity-engine/internal/pkg/config"
	"capacity-engine/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// jobTimeout bounds a single in-process job run.
const jobTimeout = 10 * time.Minute

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(StartScheduler),
)

// StartScheduler runs the population job and the alert scan in-process on
// the configured cron schedules. The /cron HTTP endpoints stay available
// for external triggering either way.
func StartScheduler(
	lc fx.Lifecycle,
	cfg config.Config,
	generateCommands commands.GenerateCommands,
	alertCommands commands.AlertCommands,
) error {
	if !cfg.Cron.SchedulerEnabled {
		slog.Info("in-process scheduler disabled")
		return nil
	}

	c := cron.New()

	if _, err := c.AddFunc(cfg.Cron.PopulateSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := generateCommands.PopulateFromTemplates(ctx); err != nil {
			slog.Error("scheduled population job failed", "error", err.Error())
		}
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc(cfg.Cron.AlertsSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := alertCommands.RunCapacityAlerts(ctx); err != nil {
			slog.Error("scheduled alert scan failed", "error", err.Error())
		}
	}); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			slog.Info("in-process scheduler started",
				"populate_schedule", cfg.Cron.PopulateSchedule,
				"alerts_schedule", cfg.Cron.AlertsSchedule,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return nil
}
