package components

import (
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/pkg/config"
	"capacity-engine/internal/usecase"
	"capacity-engine/internal/usecase/commands"
	"capacity-engine/internal/usecase/queries"
	"capacity-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSlotCommands,
		commands.NewTemplateCommands,
		newGenerateCommands,
		newAlertCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSlotQueries,
		queries.NewTemplateQueries,
		queries.NewProviderQueries,
		queries.NewAlertQueries,
		newMetricsQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func newGenerateCommands(uow shared.UnitOfWork, audit shared.AuditLog, clk clock.Clock, cfg config.Config) commands.GenerateCommands {
	return commands.NewGenerateCommands(uow, audit, clk, cfg.Capacity.HorizonDays, cfg.Capacity.BulkMaxDays)
}

func newAlertCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.AlertCommands {
	return commands.NewAlertCommands(uow, clk, cfg.Capacity)
}

func newMetricsQueries(store queries.StatsReadStore, clk clock.Clock, cfg config.Config) queries.MetricsQueries {
	return queries.NewMetricsQueries(store, clk, cfg.Capacity)
}
