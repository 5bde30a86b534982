package components

import (
	"capacity-engine/internal/handler"
	"capacity-engine/internal/handler/api"
	"capacity-engine/internal/handler/middleware"
	"capacity-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSlotHandler,
		api.NewTemplateHandler,
		api.NewMetricsHandler,
		api.NewProviderHandler,
		api.NewAlertHandler,
		api.NewCronHandler,
		middleware.NewAuthMiddleware,
		newCronAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func newCronAuthMiddleware(cfg config.Config) *middleware.CronAuthMiddleware {
	return middleware.NewCronAuthMiddleware(cfg.Cron)
}
