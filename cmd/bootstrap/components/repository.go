package components

import (
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/infra/readstore"
	"capacity-engine/internal/infra/repository"
	"capacity-engine/internal/infra/uow"
	"capacity-engine/internal/usecase/queries"
	"capacity-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			repository.NewAuditRepository,
			fx.As(new(shared.AuditLog)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotReadStore)),
			fx.As(new(queries.StatsReadStore)),
		),
		fx.Annotate(
			readstore.NewTemplateReadStore,
			fx.As(new(queries.TemplateReadStore)),
		),
		fx.Annotate(
			readstore.NewProviderReadStore,
			fx.As(new(queries.ProviderReadStore)),
		),
		fx.Annotate(
			readstore.NewAlertReadStore,
			fx.As(new(queries.AlertReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
