//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"capacity-engine/internal/handler/api"
	"capacity-engine/internal/usecase/commands"
	"capacity-engine/internal/usecase/queries"
	"capacity-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubTemplateCommands struct {
	createFn     func(ctx context.Context, params commands.CreateTemplateParams, actor string) (uuid.UUID, error)
	deactivateFn func(ctx context.Context, templateID uuid.UUID, actor string) error
}

func (s *stubTemplateCommands) CreateTemplate(ctx context.Context, params commands.CreateTemplateParams, actor string) (uuid.UUID, error) {
	return s.createFn(ctx, params, actor)
}

func (s *stubTemplateCommands) DeactivateTemplate(ctx context.Context, templateID uuid.UUID, actor string) error {
	return s.deactivateFn(ctx, templateID, actor)
}

type stubGenerateCommands struct {
	populateFn func(ctx context.Context) (*commands.PopulateResult, error)
	bulkFn     func(ctx context.Context, templateID uuid.UUID, startDate, endDate time.Time, actor string) (*commands.BulkGenerateResult, error)
}

func (s *stubGenerateCommands) PopulateFromTemplates(ctx context.Context) (*commands.PopulateResult, error) {
	return s.populateFn(ctx)
}

func (s *stubGenerateCommands) BulkGenerate(ctx context.Context, templateID uuid.UUID, startDate, endDate time.Time, actor string) (*commands.BulkGenerateResult, error) {
	return s.bulkFn(ctx, templateID, startDate, endDate, actor)
}

type stubTemplateQueries struct {
	listFn func(ctx context.Context, providerID *uuid.UUID) ([]*queries.TemplateView, error)
}

func (s *stubTemplateQueries) ListTemplates(ctx context.Context, providerID *uuid.UUID) ([]*queries.TemplateView, error) {
	return s.listFn(ctx, providerID)
}

type TemplateHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	stubCommands *stubTemplateCommands
	stubGenerate *stubGenerateCommands
	stubQueries  *stubTemplateQueries
}

func (s *TemplateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.stubCommands = &stubTemplateCommands{}
	s.stubGenerate = &stubGenerateCommands{}
	s.stubQueries = &stubTemplateQueries{}
	handler := api.NewTemplateHandler(s.stubCommands, s.stubGenerate, s.stubQueries)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Next()
	}

	templates := s.router.Group("/templates", authMiddleware)
	templates.POST("", handler.CreateTemplate)
	templates.GET("", handler.ListTemplates)
	templates.DELETE("/:id", handler.DeactivateTemplate)
	templates.POST("/bulk-generate", handler.BulkGenerate)
}

func TestTemplateHandlerSuite(t *testing.T) {
	suite.Run(t, new(TemplateHandlerTestSuite))
}

func templateRequestBody(providerID uuid.UUID) map[string]any {
	return map[string]any{
		"provider_id":  providerID,
		"service_type": "laundry",
		"day_of_week":  2,
		"start_time":   "09:00",
		"end_time":     "11:00",
		"max_units":    8,
	}
}

func (s *TemplateHandlerTestSuite) TestCreateTemplate() {
	url := "/templates"
	providerID := uuid.New()
	templateID := uuid.New()

	s.Run("success: returns 201 Created and normalizes the service type", func() {
		s.stubCommands.createFn = func(_ context.Context, params commands.CreateTemplateParams, _ string) (uuid.UUID, error) {
			s.Equal(providerID, params.ProviderID)
			s.Equal("LAUNDRY", params.ServiceType)
			s.Equal(2, params.DayOfWeek)
			return templateID, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, templateRequestBody(providerID), "token")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(templateID.String(), response["id"])
	})

	s.Run("error: 400 Bad Request on out-of-range weekday", func() {
		body := templateRequestBody(providerID)
		body["day_of_week"] = 7
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"provider not found", commands.ErrProviderNotFound, http.StatusNotFound, "Provider not found"},
			{"service type mismatch", commands.ErrServiceTypeMismatch, http.StatusBadRequest, "does not match"},
			{"bad time window", commands.ErrInvalidTemplate, http.StatusBadRequest, "Invalid template"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.stubCommands.createFn = func(context.Context, commands.CreateTemplateParams, string) (uuid.UUID, error) {
					return uuid.Nil, tc.commandsError
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, templateRequestBody(providerID), "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *TemplateHandlerTestSuite) TestDeactivateTemplate() {
	templateID := uuid.New()
	url := "/templates/" + templateID.String()

	s.Run("success: returns 204 No Content", func() {
		s.stubCommands.deactivateFn = func(_ context.Context, id uuid.UUID, _ string) error {
			s.Equal(templateID, id)
			return nil
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 Not Found for missing template", func() {
		s.stubCommands.deactivateFn = func(context.Context, uuid.UUID, string) error {
			return commands.ErrTemplateNotFound
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Template not found")
	})
}

func (s *TemplateHandlerTestSuite) TestBulkGenerate() {
	url := "/templates/bulk-generate"
	templateID := uuid.New()
	reqBody := map[string]any{
		"template_id": templateID,
		"start_date":  "2026-03-02",
		"end_date":    "2026-03-29",
	}

	s.Run("success: returns 201 Created with the slot count", func() {
		s.stubGenerate.bulkFn = func(_ context.Context, id uuid.UUID, startDate, endDate time.Time, _ string) (*commands.BulkGenerateResult, error) {
			s.Equal(templateID, id)
			s.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), startDate)
			s.Equal(time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC), endDate)
			return &commands.BulkGenerateResult{Created: 4}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response map[string]int
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(4, response["slots_created"])
	})

	s.Run("error: 409 Conflict lists the conflicting starts", func() {
		conflicts := []time.Time{
			time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC),
		}
		s.stubGenerate.bulkFn = func(context.Context, uuid.UUID, time.Time, time.Time, string) (*commands.BulkGenerateResult, error) {
			return nil, &commands.BulkConflictError{Starts: conflicts}
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response struct {
			Error  string `json:"error"`
			Detail struct {
				ConflictingStarts []time.Time `json:"conflicting_starts"`
			} `json:"detail"`
		}
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "conflict")
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal(conflicts, response.Detail.ConflictingStarts)
	})

	s.Run("error: 400 Bad Request for malformed dates", func() {
		body := map[string]any{
			"template_id": templateID,
			"start_date":  "02/03/2026",
			"end_date":    "2026-03-29",
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid start_date")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"template not found", commands.ErrTemplateNotFound, http.StatusNotFound, "Template not found"},
			{"template inactive", commands.ErrTemplateInactive, http.StatusBadRequest, "Template is inactive"},
			{"range too large", commands.ErrRangeTooLarge, http.StatusBadRequest, "exceeds the maximum"},
			{"end before start", commands.ErrInvalidDateRange, http.StatusBadRequest, "must not be before"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.stubGenerate.bulkFn = func(context.Context, uuid.UUID, time.Time, time.Time, string) (*commands.BulkGenerateResult, error) {
					return nil, tc.commandsError
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
