package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "capacity-engine/internal/handler/dto/request"
	resdto "capacity-engine/internal/handler/dto/response"
	"capacity-engine/internal/usecase/commands"
	"capacity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TemplateHandler struct {
	templateCommands commands.TemplateCommands
	generateCommands commands.GenerateCommands
	templateQueries  queries.TemplateQueries
}

func NewTemplateHandler(
	templateCommands commands.TemplateCommands,
	generateCommands commands.GenerateCommands,
	templateQueries queries.TemplateQueries,
) *TemplateHandler {
	return &TemplateHandler{
		templateCommands: templateCommands,
		generateCommands: generateCommands,
		templateQueries:  templateQueries,
	}
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateTemplateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	templateID, err := h.templateCommands.CreateTemplate(c.Request.Context(), req.ToParams(), actor)
	if err != nil {
		h.respondTemplateCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: templateID})
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var providerID *uuid.UUID
	if raw := c.Query("provider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid provider_id format",
			})
			return
		}
		providerID = &id
	}

	views, err := h.templateQueries.ListTemplates(c.Request.Context(), providerID)
	if err != nil {
		respondUnhandled(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *TemplateHandler) DeactivateTemplate(c *gin.Context) {
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
			"error": "Invalid template ID format",
		})
		return
	}

	if err := h.templateCommands.DeactivateTemplate(c.Request.Context(), id, actor); err != nil {
		h.respondTemplateCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) BulkGenerate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.BulkGenerateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid start_date, expected YYYY-MM-DD",
		})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end_date, expected YYYY-MM-DD",
		})
		return
	}

	result, err := h.generateCommands.BulkGenerate(c.Request.Context(), req.TemplateID, startDate, endDate, actor)
	if err != nil {
		var conflictErr *commands.BulkConflictError
		if errors.As(err, &conflictErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Candidate slots conflict with existing slots",
				"detail": resdto.BulkConflictDetail{ConflictingStarts: conflictErr.Starts},
			})
			return
		}
		h.respondTemplateCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.BulkGenerateResponse{
		SlotsCreated: result.Created,
	})
}

func (h *TemplateHandler) respondTemplateCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Template not found",
		})
	case errors.Is(err, commands.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Provider not found",
		})
	case errors.Is(err, commands.ErrTemplateInactive):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Template is inactive",
		})
	case errors.Is(err, commands.ErrProviderInactive):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Provider is inactive",
		})
	case errors.Is(err, commands.ErrProviderUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Template provider cannot schedule slots",
		})
	case errors.Is(err, commands.ErrServiceTypeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Service type does not match provider",
		})
	case errors.Is(err, commands.ErrInvalidServiceType):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service type",
		})
	case errors.Is(err, commands.ErrInvalidTemplate):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid template definition",
		})
	case errors.Is(err, commands.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "End date must not be before start date",
		})
	case errors.Is(err, commands.ErrRangeTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Generation range exceeds the maximum",
		})
	default:
		respondUnhandled(c, err)
	}
}
