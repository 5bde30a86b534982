package alert

import (
	"time"

	"capacity-engine/internal/domain/capacity"

	"github.com/google/uuid"
)

type Type string

const (
	TypeNoCapacity  Type = "no_capacity"
	TypeLowCapacity Type = "low_capacity"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// DedupWindow bounds the duplicate check: at most one unresolved alert per
// (type, severity) may be created inside it.
const DedupWindow = 24 * time.Hour

// CriticalLeadDays is how close a no-capacity date has to be to escalate
// from warning to critical.
const CriticalLeadDays = 2

// Alert is a detected capacity risk. Created by the monitor, resolved by
// ops (or superseded by a later scan), never otherwise mutated.
type Alert struct {
	id          uuid.UUID
	alertType   Type
	severity    Severity
	date        time.Time
	serviceType *capacity.ServiceType
	slotCount   int32
	resolved    bool
	createdAt   time.Time
}

func NewNoCapacityAlert(date, horizonStart time.Time, serviceType capacity.ServiceType) *Alert {
	return &Alert{
		id:          uuid.New(),
		alertType:   TypeNoCapacity,
		severity:    ClassifyNoCapacity(date, horizonStart),
		date:        date,
		serviceType: &serviceType,
	}
}

func NewLowCapacityAlert(date time.Time, serviceType capacity.ServiceType, slotCount int32) *Alert {
	return &Alert{
		id:          uuid.New(),
		alertType:   TypeLowCapacity,
		severity:    SeverityInfo,
		date:        date,
		serviceType: &serviceType,
		slotCount:   slotCount,
	}
}

func ReconstructAlert(
	id uuid.UUID,
	alertType Type,
	severity Severity,
	date time.Time,
	serviceType *capacity.ServiceType,
	slotCount int32,
	resolved bool,
	createdAt time.Time,
) *Alert {
	return &Alert{
		id:          id,
		alertType:   alertType,
		severity:    severity,
		date:        date,
		serviceType: serviceType,
		slotCount:   slotCount,
		resolved:    resolved,
		createdAt:   createdAt,
	}
}

// ClassifyNoCapacity bands severity by how soon the affected date is: a
// full day within the first CriticalLeadDays of the horizon is critical,
// anything further out is a warning.
func ClassifyNoCapacity(date, horizonStart time.Time) Severity {
	cutoff := horizonStart.AddDate(0, 0, CriticalLeadDays)
	if date.Before(cutoff) {
		return SeverityCritical
	}
	return SeverityWarning
}

func (a *Alert) ID() uuid.UUID                      { return a.id }
func (a *Alert) Type() Type                         { return a.alertType }
func (a *Alert) Severity() Severity                 { return a.severity }
func (a *Alert) Date() time.Time                    { return a.date }
func (a *Alert) ServiceType() *capacity.ServiceType { return a.serviceType }
func (a *Alert) SlotCount() int32                   { return a.slotCount }
func (a *Alert) Resolved() bool                     { return a.resolved }
func (a *Alert) CreatedAt() time.Time               { return a.createdAt }
