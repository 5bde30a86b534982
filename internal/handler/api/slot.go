package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	reqdto "capacity-engine/internal/handler/dto/request"
	resdto "capacity-engine/internal/handler/dto/response"
	"capacity-engine/internal/handler/middleware"
	"capacity-engine/internal/usecase/commands"
	"capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotCommands commands.SlotCommands
	slotQueries  queries.SlotQueries
}

func NewSlotHandler(slotCommands commands.SlotCommands, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotCommands: slotCommands,
		slotQueries:  slotQueries,
	}
}

func (h *SlotHandler) CreateSlot(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	slotID, err := h.slotCommands.CreateSlot(c.Request.Context(), req.ToParams(), actor)
	if err != nil {
		h.respondSlotCommandError(c, err)
		return
	}

	view, err := h.slotQueries.GetSlot(c.Request.Context(), slotID)
	if err != nil {
		// Created but the read-back failed; still report success.
		c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: slotID})
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *SlotHandler) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	view, err := h.slotQueries.GetSlot(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		default:
			respondUnhandled(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SlotHandler) ListSlots(c *gin.Context) {
	filter, err := slotFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	views, err := h.slotQueries.ListSlots(c.Request.Context(), filter)
	if err != nil {
		respondUnhandled(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	var req reqdto.UpdateSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.slotCommands.UpdateSlot(c.Request.Context(), id, req.ToParams(), actor); err != nil {
		h.respondSlotCommandError(c, err)
		return
	}

	view, err := h.slotQueries.GetSlot(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	if err := h.slotCommands.DeleteSlot(c.Request.Context(), id, actor); err != nil {
		h.respondSlotCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SlotHandler) ReserveUnits(c *gin.Context) {
	h.adjustUnits(c, h.slotCommands.ReserveUnits)
}

func (h *SlotHandler) ReleaseUnits(c *gin.Context) {
	h.adjustUnits(c, h.slotCommands.ReleaseUnits)
}

func (h *SlotHandler) adjustUnits(c *gin.Context, adjust func(ctx context.Context, id uuid.UUID, units int32) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	var req reqdto.AdjustUnitsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := adjust(c.Request.Context(), id, req.Units); err != nil {
		h.respondSlotCommandError(c, err)
		return
	}

	view, err := h.slotQueries.GetSlot(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SlotHandler) respondSlotCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Provider not found",
		})
	case errors.Is(err, commands.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Slot not found",
		})
	case errors.Is(err, commands.ErrProviderInactive):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Provider is inactive",
		})
	case errors.Is(err, commands.ErrServiceTypeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Service type does not match provider",
		})
	case errors.Is(err, commands.ErrInvalidServiceType):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service type",
		})
	case errors.Is(err, commands.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Slot end must be after slot start",
		})
	case errors.Is(err, commands.ErrSlotInPast):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Slot start must be in the future",
		})
	case errors.Is(err, commands.ErrInvalidMaxUnits):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Max units must be positive",
		})
	case errors.Is(err, commands.ErrInvalidUnitCount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unit count must be positive",
		})
	case errors.Is(err, commands.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot overlaps an existing slot",
		})
	case errors.Is(err, commands.ErrCapacityBelowReserved):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Max units cannot be reduced below reserved units",
		})
	case errors.Is(err, commands.ErrHasReservations):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot has active reservations",
		})
	case errors.Is(err, commands.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Not enough free capacity",
		})
	default:
		respondUnhandled(c, err)
	}
}

func actorFromContext(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return "", false
	}
	return userID.String(), true
}

func slotFilterFromQuery(c *gin.Context) (queries.SlotFilter, error) {
	var filter queries.SlotFilter

	if raw := c.Query("provider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid provider_id format")
		}
		filter.ProviderID = &id
	}
	if raw := c.Query("service_type"); raw != "" {
		st := strings.ToUpper(strings.TrimSpace(raw))
		filter.ServiceType = &st
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("invalid start_date, expected YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("invalid end_date, expected YYYY-MM-DD")
		}
		// End date is inclusive on the API; widen to the next midnight.
		end := t.AddDate(0, 0, 1)
		filter.EndDate = &end
	}

	return filter, nil
}
