package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"capacity-engine/internal/handler/api"
	"capacity-engine/internal/handler/middleware"
	"capacity-engine/internal/pkg/config"
	"capacity-engine/internal/usecase"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	slotHandler *api.SlotHandler,
	templateHandler *api.TemplateHandler,
	metricsHandler *api.MetricsHandler,
	providerHandler *api.ProviderHandler,
	alertHandler *api.AlertHandler,
	cronHandler *api.CronHandler,
	authMiddleware *middleware.AuthMiddleware,
	cronAuthMiddleware *middleware.CronAuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, slotHandler, templateHandler, metricsHandler, providerHandler, alertHandler, cronHandler, authMiddleware, cronAuthMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	slotHandler *api.SlotHandler,
	templateHandler *api.TemplateHandler,
	metricsHandler *api.MetricsHandler,
	providerHandler *api.ProviderHandler,
	alertHandler *api.AlertHandler,
	cronHandler *api.CronHandler,
	authMiddleware *middleware.AuthMiddleware,
	cronAuthMiddleware *middleware.CronAuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	capacityGroup := engine.Group("/api/capacity")
	capacityGroup.Use(authMiddleware.RequireAuth())
	capacityGroup.Use(authMiddleware.RequireRoleAtLeast(usecase.RoleAdmin))
	capacityGroup.Use(middleware.RequestTimeout())
	{
		slots := capacityGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodPost, Path: "", Handler: slotHandler.CreateSlot},
				{Method: http.MethodGet, Path: "", Handler: slotHandler.ListSlots},
				{Method: http.MethodGet, Path: "/:id", Handler: slotHandler.GetSlot},
				{Method: http.MethodPut, Path: "/:id", Handler: slotHandler.UpdateSlot},
				{Method: http.MethodPatch, Path: "/:id", Handler: slotHandler.UpdateSlot},
				{Method: http.MethodDelete, Path: "/:id", Handler: slotHandler.DeleteSlot},
				{Method: http.MethodPost, Path: "/:id/reserve", Handler: slotHandler.ReserveUnits},
				{Method: http.MethodPost, Path: "/:id/release", Handler: slotHandler.ReleaseUnits},
			})
		}

		templates := capacityGroup.Group("/templates")
		{
			addRoutes(templates, []route{
				{Method: http.MethodPost, Path: "", Handler: templateHandler.CreateTemplate},
				{Method: http.MethodGet, Path: "", Handler: templateHandler.ListTemplates},
				{Method: http.MethodDelete, Path: "/:id", Handler: templateHandler.DeactivateTemplate},
				{Method: http.MethodPost, Path: "/bulk-generate", Handler: templateHandler.BulkGenerate},
			})
		}

		addRoutes(capacityGroup, []route{
			{Method: http.MethodGet, Path: "/metrics", Handler: metricsHandler.GetMetrics},
			{Method: http.MethodGet, Path: "/providers", Handler: providerHandler.ListProviders},
			{Method: http.MethodGet, Path: "/alerts", Handler: alertHandler.ListAlerts},
		})
	}

	cronGroup := engine.Group("/cron")
	cronGroup.Use(cronAuthMiddleware.RequireSecret())
	{
		addRoutes(cronGroup, []route{
			{Method: http.MethodGet, Path: "/populate-slots", Handler: cronHandler.PopulateSlots},
			{Method: http.MethodGet, Path: "/capacity-alerts", Handler: cronHandler.CapacityAlerts},
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
