//go:build unit

package builder

import (
	"time"

	"capacity-engine/internal/domain/capacity"

	"github.com/google/uuid"
)

type TemplateBuilder struct {
	ID          uuid.UUID
	ProviderID  uuid.UUID
	ServiceType capacity.ServiceType
	DayOfWeek   int
	StartTime   string
	EndTime     string
	MaxUnits    int32
	IsActive    bool
	Now         time.Time
}

func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{
		ID:          uuid.New(),
		ProviderID:  uuid.New(),
		ServiceType: capacity.ServiceLaundry,
		DayOfWeek:   2, // Tuesday
		StartTime:   "09:00",
		EndTime:     "11:00",
		MaxUnits:    8,
		IsActive:    true,
		Now:         time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), // a Monday
	}
}

func (b *TemplateBuilder) With(mutate func(*TemplateBuilder)) *TemplateBuilder {
	mutate(b)
	return b
}

func (b *TemplateBuilder) BuildDomain() (*capacity.Template, error) {
	startTime, err := capacity.ParseMinuteOfDay(b.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := capacity.ParseMinuteOfDay(b.EndTime)
	if err != nil {
		return nil, err
	}
	return capacity.NewTemplate(b.ProviderID, b.ServiceType, b.DayOfWeek, startTime, endTime, b.MaxUnits)
}

func (b *TemplateBuilder) BuildReconstructed() *capacity.Template {
	startTime, _ := capacity.ParseMinuteOfDay(b.StartTime)
	endTime, _ := capacity.ParseMinuteOfDay(b.EndTime)
	return capacity.ReconstructTemplate(
		b.ID, b.ProviderID, b.ServiceType, b.DayOfWeek,
		startTime, endTime, b.MaxUnits, b.IsActive,
		b.Now, b.Now,
	)
}
