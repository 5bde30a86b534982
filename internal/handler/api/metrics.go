package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsQueries queries.MetricsQueries
}

func NewMetricsHandler(metricsQueries queries.MetricsQueries) *MetricsHandler {
	return &MetricsHandler{metricsQueries: metricsQueries}
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var rangeStart, rangeEnd *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid start_date, expected YYYY-MM-DD",
			})
			return
		}
		rangeStart = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid end_date, expected YYYY-MM-DD",
			})
			return
		}
		rangeEnd = &t
	}

	var serviceType *capacity.ServiceType
	if raw := c.Query("service_type"); raw != "" {
		st := capacity.ServiceType(strings.ToUpper(strings.TrimSpace(raw)))
		if !st.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid service type",
			})
			return
		}
		serviceType = &st
	}

	report, err := h.metricsQueries.Report(c.Request.Context(), rangeStart, rangeEnd, serviceType)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidMetricsRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End date must not be before start date",
			})
		default:
			respondUnhandled(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
