package shared

import (
	"context"
	"time"

	"capacity-engine/internal/domain/alert"
	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/domain/provider"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full read-committed transaction with retry on serialization
	// failures; slot writers must take the per-provider lock first.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: snapshot reads outside any explicit transaction.
	Reads() CommandReads
}

type Tx interface {
	// LockProvider serializes all slot writers for one provider so the
	// overlap check and the subsequent insert/update are atomic. Released
	// at transaction end.
	LockProvider(ctx context.Context, providerID uuid.UUID) error
	Slots() SlotRepository
	Templates() TemplateRepository
	Alerts() AlertRepository
	Reads() CommandReads
}

type SlotRepository interface {
	Create(ctx context.Context, slot *capacity.Slot) error
	Update(ctx context.Context, slot *capacity.Slot) error
	Delete(ctx context.Context, id uuid.UUID) error
	// HasOverlap runs the half-open interval conflict check for a provider,
	// optionally excluding one slot (for updates).
	HasOverlap(ctx context.Context, providerID uuid.UUID, window capacity.TimeWindow, excludeID *uuid.UUID) (bool, error)
	// ExistsAtStart is the generation idempotency key: exact-start match,
	// not full overlap.
	ExistsAtStart(ctx context.Context, providerID uuid.UUID, serviceType capacity.ServiceType, start time.Time) (bool, error)
	// AdjustReserved atomically moves reserved units by delta, failing when
	// the result would leave [0, max]. The only oversell guard in the system.
	AdjustReserved(ctx context.Context, id uuid.UUID, delta int32) error
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *capacity.Template) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type AlertRepository interface {
	Create(ctx context.Context, a *alert.Alert) error
	// HasRecentUnresolved backs the dedup invariant: one unresolved alert
	// per (type, severity) within the rolling window.
	HasRecentUnresolved(ctx context.Context, alertType alert.Type, severity alert.Severity, since time.Time) (bool, error)
}

type CommandReads interface {
	ProviderByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error)
	SlotByID(ctx context.Context, id uuid.UUID) (*capacity.Slot, error)
	TemplateByID(ctx context.Context, id uuid.UUID) (*capacity.Template, error)
	// ActiveTemplates returns active templates whose owning provider is
	// itself active.
	ActiveTemplates(ctx context.Context) ([]*capacity.Template, error)
	SlotStatsInRange(ctx context.Context, rangeStart, rangeEnd time.Time, serviceType *capacity.ServiceType) ([]capacity.SlotStats, error)
}

// AuditLog is the collaborator append-only trail. Writes are best-effort:
// callers log failures and never roll back the domain mutation.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}

type AuditEntry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Changes    map[string]any
}

// FieldChange is the {from, to} pair recorded for each updated field.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}
