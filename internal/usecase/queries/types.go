package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SlotView struct {
	ID                 uuid.UUID `json:"id"`
	ProviderID         uuid.UUID `json:"provider_id"`
	ProviderName       string    `json:"provider_name"`
	ServiceType        string    `json:"service_type"`
	SlotStart          time.Time `json:"slot_start"`
	SlotEnd            time.Time `json:"slot_end"`
	MaxUnits           int32     `json:"max_units"`
	ReservedUnits      int32     `json:"reserved_units"`
	AvailableUnits     int32     `json:"available_units"`
	UtilizationPercent int32     `json:"utilization_percent"`
	Status             string    `json:"status"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedBy          string    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type TemplateView struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	ServiceType string    `json:"service_type"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	MaxUnits    int32     `json:"max_units"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProviderView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ServiceType  string    `json:"service_type"`
	IsActive     bool      `json:"is_active"`
	DefaultUnits int32     `json:"default_units"`
	CreatedAt    time.Time `json:"created_at"`
}

type AlertView struct {
	ID          uuid.UUID `json:"id"`
	AlertType   string    `json:"alert_type"`
	Severity    string    `json:"severity"`
	AlertDate   time.Time `json:"alert_date"`
	ServiceType *string   `json:"service_type,omitempty"`
	SlotCount   int32     `json:"slot_count"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

type SlotFilter struct {
	ProviderID  *uuid.UUID
	ServiceType *string
	StartDate   *time.Time
	EndDate     *time.Time
}
