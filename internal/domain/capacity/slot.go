package capacity

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveMaxUnits   = errors.New("max units must be positive")
	ErrNegativeReservedUnits = errors.New("reserved units cannot be negative")
	ErrReservedExceedsMax    = errors.New("reserved units cannot exceed max units")
	ErrCapacityBelowReserved = errors.New("max units cannot be reduced below reserved units")
	ErrHasReservations       = errors.New("slot has active reservations")
	ErrInsufficientCapacity  = errors.New("insufficient free capacity")
)

// Slot is the atomic unit of bookable capacity for one provider and one
// service kind. The overlap invariant across a provider's slots is enforced
// at the store, everything about a single slot is enforced here.
type Slot struct {
	id            uuid.UUID
	providerID    uuid.UUID
	serviceType   ServiceType
	window        TimeWindow
	maxUnits      int32
	reservedUnits int32
	notes         string
	createdBy     string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewSlot(
	providerID uuid.UUID,
	serviceType ServiceType,
	window TimeWindow,
	maxUnits int32,
	notes string,
	createdBy string,
) (*Slot, error) {
	if maxUnits <= 0 {
		return nil, ErrNonPositiveMaxUnits
	}

	return &Slot{
		id:          uuid.New(),
		providerID:  providerID,
		serviceType: serviceType,
		window:      window,
		maxUnits:    maxUnits,
		notes:       notes,
		createdBy:   createdBy,
	}, nil
}

func ReconstructSlot(
	id, providerID uuid.UUID,
	serviceType ServiceType,
	window TimeWindow,
	maxUnits, reservedUnits int32,
	notes, createdBy string,
	createdAt, updatedAt time.Time,
) (*Slot, error) {
	if maxUnits <= 0 {
		return nil, ErrNonPositiveMaxUnits
	}
	if reservedUnits < 0 {
		return nil, ErrNegativeReservedUnits
	}
	if reservedUnits > maxUnits {
		return nil, ErrReservedExceedsMax
	}

	return &Slot{
		id:            id,
		providerID:    providerID,
		serviceType:   serviceType,
		window:        window,
		maxUnits:      maxUnits,
		reservedUnits: reservedUnits,
		notes:         notes,
		createdBy:     createdBy,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// Reschedule moves the slot to a new window. Window/future validation
// happens in NewFutureTimeWindow at the caller; overlap re-check happens
// at the store.
func (s *Slot) Reschedule(window TimeWindow) {
	s.window = window
}

// ResizeCapacity changes max units, never below what is already reserved.
func (s *Slot) ResizeCapacity(maxUnits int32) error {
	if maxUnits <= 0 {
		return ErrNonPositiveMaxUnits
	}
	if maxUnits < s.reservedUnits {
		return ErrCapacityBelowReserved
	}
	s.maxUnits = maxUnits
	return nil
}

func (s *Slot) UpdateNotes(notes string) {
	s.notes = notes
}

// CanDelete guards hard deletion: a slot with reservations must keep its row.
func (s *Slot) CanDelete() error {
	if s.reservedUnits > 0 {
		return ErrHasReservations
	}
	return nil
}

func (s *Slot) AvailableUnits() int32 {
	return s.maxUnits - s.reservedUnits
}

func (s *Slot) UtilizationPercent() int32 {
	if s.maxUnits == 0 {
		return 0
	}
	return int32(math.Round(float64(s.reservedUnits) / float64(s.maxUnits) * 100))
}

func (s *Slot) Status() SlotStatus {
	switch {
	case s.reservedUnits == 0:
		return StatusAvailable
	case s.reservedUnits < s.maxUnits:
		return StatusPartial
	default:
		return StatusFull
	}
}

func (s *Slot) ID() uuid.UUID            { return s.id }
func (s *Slot) ProviderID() uuid.UUID    { return s.providerID }
func (s *Slot) ServiceType() ServiceType { return s.serviceType }
func (s *Slot) Window() TimeWindow       { return s.window }
func (s *Slot) MaxUnits() int32          { return s.maxUnits }
func (s *Slot) ReservedUnits() int32     { return s.reservedUnits }
func (s *Slot) Notes() string            { return s.notes }
func (s *Slot) CreatedBy() string        { return s.createdBy }
func (s *Slot) CreatedAt() time.Time     { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time     { return s.updatedAt }
