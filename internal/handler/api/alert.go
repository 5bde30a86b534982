package api

import (
	"net/http"

	"capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertQueries queries.AlertQueries
}

func NewAlertHandler(alertQueries queries.AlertQueries) *AlertHandler {
	return &AlertHandler{alertQueries: alertQueries}
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	unresolvedOnly := c.Query("unresolved") == "true"

	views, err := h.alertQueries.ListAlerts(c.Request.Context(), unresolvedOnly)
	if err != nil {
		respondUnhandled(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
