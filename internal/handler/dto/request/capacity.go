package request

import (
	"strings"
	"time"

	"capacity-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	ProviderID  uuid.UUID `json:"provider_id" binding:"required"`
	ServiceType string    `json:"service_type" binding:"required"`
	SlotStart   time.Time `json:"slot_start" binding:"required"`
	SlotEnd     time.Time `json:"slot_end" binding:"required"`
	MaxUnits    int32     `json:"max_units" binding:"required,min=1"`
	Notes       *string   `json:"notes,omitempty"`
}

func (r CreateSlotRequest) ToParams() commands.CreateSlotParams {
	notes := ""
	if r.Notes != nil {
		notes = strings.TrimSpace(*r.Notes)
	}
	return commands.CreateSlotParams{
		ProviderID:  r.ProviderID,
		ServiceType: strings.ToUpper(strings.TrimSpace(r.ServiceType)),
		SlotStart:   r.SlotStart,
		SlotEnd:     r.SlotEnd,
		MaxUnits:    r.MaxUnits,
		Notes:       notes,
	}
}

type UpdateSlotRequest struct {
	SlotStart *time.Time `json:"slot_start,omitempty"`
	SlotEnd   *time.Time `json:"slot_end,omitempty"`
	MaxUnits  *int32     `json:"max_units,omitempty" binding:"omitempty,min=1"`
	Notes     *string    `json:"notes,omitempty"`
}

func (r UpdateSlotRequest) ToParams() commands.UpdateSlotParams {
	return commands.UpdateSlotParams{
		SlotStart: r.SlotStart,
		SlotEnd:   r.SlotEnd,
		MaxUnits:  r.MaxUnits,
		Notes:     r.Notes,
	}
}

type AdjustUnitsRequest struct {
	Units int32 `json:"units" binding:"required,min=1"`
}

type CreateTemplateRequest struct {
	ProviderID  uuid.UUID `json:"provider_id" binding:"required"`
	ServiceType string    `json:"service_type" binding:"required"`
	DayOfWeek   *int      `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime   string    `json:"start_time" binding:"required"`
	EndTime     string    `json:"end_time" binding:"required"`
	MaxUnits    int32     `json:"max_units" binding:"required,min=1"`
}

func (r CreateTemplateRequest) ToParams() commands.CreateTemplateParams {
	return commands.CreateTemplateParams{
		ProviderID:  r.ProviderID,
		ServiceType: strings.ToUpper(strings.TrimSpace(r.ServiceType)),
		DayOfWeek:   *r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxUnits:    r.MaxUnits,
	}
}

type BulkGenerateRequest struct {
	TemplateID uuid.UUID `json:"template_id" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required"`
	EndDate    string    `json:"end_date" binding:"required"`
}
