package api

import (
	"net/http"

	"capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	providerQueries queries.ProviderQueries
}

func NewProviderHandler(providerQueries queries.ProviderQueries) *ProviderHandler {
	return &ProviderHandler{providerQueries: providerQueries}
}

func (h *ProviderHandler) ListProviders(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	views, err := h.providerQueries.ListProviders(c.Request.Context(), activeOnly)
	if err != nil {
		respondUnhandled(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
