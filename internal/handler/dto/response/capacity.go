package response

import (
	"time"

	"capacity-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type BulkGenerateResponse struct {
	SlotsCreated int `json:"slots_created"`
}

type BulkConflictDetail struct {
	ConflictingStarts []time.Time `json:"conflicting_starts"`
}

type PopulateResponse struct {
	Created int                 `json:"created"`
	Skipped int                 `json:"skipped"`
	Errors  []PopulateErrorItem `json:"errors"`
	RanAt   time.Time           `json:"ran_at"`
}

type PopulateErrorItem struct {
	TemplateID uuid.UUID `json:"template_id"`
	SlotStart  time.Time `json:"slot_start"`
	Message    string    `json:"message"`
}

func FromPopulateResult(result *commands.PopulateResult) *PopulateResponse {
	resp := &PopulateResponse{
		Created: result.Created,
		Skipped: result.Skipped,
		Errors:  make([]PopulateErrorItem, 0, len(result.Errors)),
		RanAt:   result.RanAt,
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, PopulateErrorItem{
			TemplateID: e.TemplateID,
			SlotStart:  e.SlotStart,
			Message:    e.Message,
		})
	}
	return resp
}

type AlertRunResponse struct {
	AlertsCreated int                `json:"alerts_created"`
	Alerts        []AlertCreatedItem `json:"alerts"`
	Skipped       int                `json:"skipped"`
	RanAt         time.Time          `json:"ran_at"`
}

type AlertCreatedItem struct {
	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity"`
	AlertDate   string `json:"alert_date"`
	ServiceType string `json:"service_type"`
	SlotCount   int32  `json:"slot_count"`
}

func FromAlertRunResult(result *commands.AlertRunResult) *AlertRunResponse {
	resp := &AlertRunResponse{
		AlertsCreated: len(result.Created),
		Alerts:        make([]AlertCreatedItem, 0, len(result.Created)),
		Skipped:       result.Skipped,
		RanAt:         result.RanAt,
	}
	for _, a := range result.Created {
		resp.Alerts = append(resp.Alerts, AlertCreatedItem{
			AlertType:   string(a.Type),
			Severity:    string(a.Severity),
			AlertDate:   a.Date.Format("2006-01-02"),
			ServiceType: a.ServiceType.String(),
			SlotCount:   a.SlotCount,
		})
	}
	return resp
}
