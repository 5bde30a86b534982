package api

import (
	"net/http"

	resdto "capacity-engine/internal/handler/dto/response"
	"capacity-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// CronHandler backs the shared-secret endpoints the external scheduler
// hits; the same jobs also run on the in-process scheduler.
type CronHandler struct {
	generateCommands commands.GenerateCommands
	alertCommands    commands.AlertCommands
}

func NewCronHandler(generateCommands commands.GenerateCommands, alertCommands commands.AlertCommands) *CronHandler {
	return &CronHandler{
		generateCommands: generateCommands,
		alertCommands:    alertCommands,
	}
}

func (h *CronHandler) PopulateSlots(c *gin.Context) {
	result, err := h.generateCommands.PopulateFromTemplates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Population job failed",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPopulateResult(result))
}

func (h *CronHandler) CapacityAlerts(c *gin.Context) {
	result, err := h.alertCommands.RunCapacityAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Alert scan failed",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAlertRunResult(result))
}
