package provider

import (
	"errors"
	"time"

	"capacity-engine/internal/domain/capacity"

	"github.com/google/uuid"
)

var (
	ErrInactive        = errors.New("provider is inactive")
	ErrServiceMismatch = errors.New("provider does not offer this service type")
)

// Provider is an external entity referenced by ID; its lifecycle is managed
// outside the scheduling core. DefaultUnits is the capacity quantum: orders
// per slot for laundry providers, minutes per slot for cleaning providers.
type Provider struct {
	id           uuid.UUID
	name         string
	serviceType  capacity.ServiceType
	isActive     bool
	defaultUnits int32
	createdAt    time.Time
}

func Reconstruct(
	id uuid.UUID,
	name string,
	serviceType capacity.ServiceType,
	isActive bool,
	defaultUnits int32,
	createdAt time.Time,
) *Provider {
	return &Provider{
		id:           id,
		name:         name,
		serviceType:  serviceType,
		isActive:     isActive,
		defaultUnits: defaultUnits,
		createdAt:    createdAt,
	}
}

// CanSchedule verifies the provider may receive a slot of the given kind.
func (p *Provider) CanSchedule(serviceType capacity.ServiceType) error {
	if !p.isActive {
		return ErrInactive
	}
	if p.serviceType != serviceType {
		return ErrServiceMismatch
	}
	return nil
}

func (p *Provider) ID() uuid.UUID                     { return p.id }
func (p *Provider) Name() string                      { return p.name }
func (p *Provider) ServiceType() capacity.ServiceType { return p.serviceType }
func (p *Provider) IsActive() bool                    { return p.isActive }
func (p *Provider) DefaultUnits() int32               { return p.defaultUnits }
func (p *Provider) CreatedAt() time.Time              { return p.createdAt }
