//go:build unit

package builder

import (
	"time"

	"capacity-engine/internal/domain/capacity"
	domprovider "capacity-engine/internal/domain/provider"
	reqdto "capacity-engine/internal/handler/dto/request"
	"capacity-engine/internal/usecase/commands"
	"capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID            uuid.UUID
	ProviderID    uuid.UUID
	ServiceType   capacity.ServiceType
	SlotStart     time.Time
	SlotEnd       time.Time
	MaxUnits      int32
	ReservedUnits int32
	Notes         string
	CreatedBy     string
	Now           time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday
	return &SlotBuilder{
		ID:          uuid.New(),
		ProviderID:  uuid.New(),
		ServiceType: capacity.ServiceLaundry,
		SlotStart:   now.Add(24 * time.Hour),
		SlotEnd:     now.Add(26 * time.Hour),
		MaxUnits:    10,
		Notes:       "",
		CreatedBy:   "admin",
		Now:         now,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) BuildDomain() (*capacity.Slot, error) {
	window, err := capacity.NewFutureTimeWindow(b.SlotStart, b.SlotEnd, b.Now)
	if err != nil {
		return nil, err
	}
	return capacity.NewSlot(b.ProviderID, b.ServiceType, window, b.MaxUnits, b.Notes, b.CreatedBy)
}

func (b *SlotBuilder) BuildReconstructed() (*capacity.Slot, error) {
	window, err := capacity.NewTimeWindow(b.SlotStart, b.SlotEnd)
	if err != nil {
		return nil, err
	}
	return capacity.ReconstructSlot(
		b.ID, b.ProviderID, b.ServiceType, window,
		b.MaxUnits, b.ReservedUnits, b.Notes, b.CreatedBy,
		b.Now, b.Now,
	)
}

func (b *SlotBuilder) BuildCreateParams() commands.CreateSlotParams {
	return commands.CreateSlotParams{
		ProviderID:  b.ProviderID,
		ServiceType: b.ServiceType.String(),
		SlotStart:   b.SlotStart,
		SlotEnd:     b.SlotEnd,
		MaxUnits:    b.MaxUnits,
		Notes:       b.Notes,
	}
}

func (b *SlotBuilder) BuildCreateRequestDTO() reqdto.CreateSlotRequest {
	return reqdto.CreateSlotRequest{
		ProviderID:  b.ProviderID,
		ServiceType: b.ServiceType.String(),
		SlotStart:   b.SlotStart,
		SlotEnd:     b.SlotEnd,
		MaxUnits:    b.MaxUnits,
	}
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	available := b.MaxUnits - b.ReservedUnits
	var utilization int32
	if b.MaxUnits > 0 {
		utilization = b.ReservedUnits * 100 / b.MaxUnits
	}
	status := capacity.StatusAvailable
	switch {
	case b.MaxUnits > 0 && available == 0:
		status = capacity.StatusFull
	case b.ReservedUnits > 0:
		status = capacity.StatusPartial
	}
	return &queries.SlotView{
		ID:                 b.ID,
		ProviderID:         b.ProviderID,
		ProviderName:       "Test Provider",
		ServiceType:        b.ServiceType.String(),
		SlotStart:          b.SlotStart,
		SlotEnd:            b.SlotEnd,
		MaxUnits:           b.MaxUnits,
		ReservedUnits:      b.ReservedUnits,
		AvailableUnits:     available,
		UtilizationPercent: utilization,
		Status:             status.String(),
		CreatedBy:          b.CreatedBy,
		CreatedAt:          b.Now,
		UpdatedAt:          b.Now,
	}
}

func (b *SlotBuilder) BuildProvider() *domprovider.Provider {
	return domprovider.Reconstruct(b.ProviderID, "Test Provider", b.ServiceType, true, b.MaxUnits, b.Now)
}
