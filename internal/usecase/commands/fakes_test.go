//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	domalert "capacity-engine/internal/domain/alert"
	"capacity-engine/internal/domain/capacity"
	domprovider "capacity-engine/internal/domain/provider"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var errNoRows = errors.New("no rows in result set")

// fakeStore is an in-memory stand-in for the Postgres layer. Within
// snapshots the slot table so a failed transaction rolls back creates and
// deletes, which is what the atomicity tests exercise.
type fakeStore struct {
	providers map[uuid.UUID]*domprovider.Provider
	slots     map[uuid.UUID]*capacity.Slot
	templates map[uuid.UUID]*capacity.Template
	alerts    []*domalert.Alert
	// unresolved alert creation times keyed by type|severity
	unresolvedAt map[string]time.Time

	lockedProviders []uuid.UUID
	createSlotErr   error
	createAlertErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		providers:    make(map[uuid.UUID]*domprovider.Provider),
		slots:        make(map[uuid.UUID]*capacity.Slot),
		templates:    make(map[uuid.UUID]*capacity.Template),
		unresolvedAt: make(map[string]time.Time),
	}
}

func (s *fakeStore) addProvider(p *domprovider.Provider) { s.providers[p.ID()] = p }
func (s *fakeStore) addSlot(slot *capacity.Slot)         { s.slots[slot.ID()] = slot }
func (s *fakeStore) addTemplate(tpl *capacity.Template)  { s.templates[tpl.ID()] = tpl }

func (s *fakeStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := make(map[uuid.UUID]*capacity.Slot, len(s.slots))
	for id, slot := range s.slots {
		snapshot[id] = slot
	}
	alertSnapshot := len(s.alerts)

	if err := fn(ctx, &fakeTx{store: s}); err != nil {
		s.slots = snapshot
		s.alerts = s.alerts[:alertSnapshot]
		return err
	}
	return nil
}

func (s *fakeStore) Reads() shared.CommandReads {
	return &fakeReads{store: s}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) LockProvider(_ context.Context, providerID uuid.UUID) error {
	t.store.lockedProviders = append(t.store.lockedProviders, providerID)
	return nil
}

func (t *fakeTx) Slots() shared.SlotRepository         { return &fakeSlotRepo{store: t.store} }
func (t *fakeTx) Templates() shared.TemplateRepository { return &fakeTemplateRepo{store: t.store} }
func (t *fakeTx) Alerts() shared.AlertRepository       { return &fakeAlertRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads           { return &fakeReads{store: t.store} }

type fakeSlotRepo struct {
	store *fakeStore
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *capacity.Slot) error {
	if r.store.createSlotErr != nil {
		return r.store.createSlotErr
	}
	r.store.slots[slot.ID()] = slot
	return nil
}

func (r *fakeSlotRepo) Update(_ context.Context, slot *capacity.Slot) error {
	if _, ok := r.store.slots[slot.ID()]; !ok {
		return infra.WrapRepoErr("slot not found", errNoRows, infra.KindNotFound)
	}
	r.store.slots[slot.ID()] = slot
	return nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.slots[id]; !ok {
		return infra.WrapRepoErr("slot not found", errNoRows, infra.KindNotFound)
	}
	delete(r.store.slots, id)
	return nil
}

func (r *fakeSlotRepo) HasOverlap(_ context.Context, providerID uuid.UUID, window capacity.TimeWindow, excludeID *uuid.UUID) (bool, error) {
	for id, slot := range r.store.slots {
		if slot.ProviderID() != providerID {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		if slot.Window().Overlaps(window) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSlotRepo) ExistsAtStart(_ context.Context, providerID uuid.UUID, serviceType capacity.ServiceType, start time.Time) (bool, error) {
	for _, slot := range r.store.slots {
		if slot.ProviderID() == providerID &&
			slot.ServiceType() == serviceType &&
			slot.Window().Start().Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSlotRepo) AdjustReserved(_ context.Context, id uuid.UUID, delta int32) error {
	slot, ok := r.store.slots[id]
	if !ok {
		return infra.WrapRepoErr("slot not found", errNoRows, infra.KindNotFound)
	}

	next := slot.ReservedUnits() + delta
	if next < 0 || next > slot.MaxUnits() {
		return infra.WrapRepoErr("reserved units out of bounds", errNoRows, infra.KindConflict)
	}

	updated, err := capacity.ReconstructSlot(
		slot.ID(), slot.ProviderID(), slot.ServiceType(), slot.Window(),
		slot.MaxUnits(), next, slot.Notes(), slot.CreatedBy(),
		slot.CreatedAt(), slot.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	r.store.slots[id] = updated
	return nil
}

type fakeTemplateRepo struct {
	store *fakeStore
}

func (r *fakeTemplateRepo) Create(_ context.Context, tpl *capacity.Template) error {
	r.store.templates[tpl.ID()] = tpl
	return nil
}

func (r *fakeTemplateRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	tpl, ok := r.store.templates[id]
	if !ok {
		return infra.WrapRepoErr("template not found", errNoRows, infra.KindNotFound)
	}
	tpl.Deactivate()
	return nil
}

type fakeAlertRepo struct {
	store *fakeStore
}

func alertDedupKey(alertType domalert.Type, severity domalert.Severity) string {
	return fmt.Sprintf("%s|%s", alertType, severity)
}

func (r *fakeAlertRepo) Create(_ context.Context, a *domalert.Alert) error {
	if r.store.createAlertErr != nil {
		return r.store.createAlertErr
	}
	r.store.alerts = append(r.store.alerts, a)
	r.store.unresolvedAt[alertDedupKey(a.Type(), a.Severity())] = time.Now()
	return nil
}

func (r *fakeAlertRepo) HasRecentUnresolved(_ context.Context, alertType domalert.Type, severity domalert.Severity, since time.Time) (bool, error) {
	at, ok := r.store.unresolvedAt[alertDedupKey(alertType, severity)]
	if !ok {
		return false, nil
	}
	return at.After(since), nil
}

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) ProviderByID(_ context.Context, id uuid.UUID) (*domprovider.Provider, error) {
	p, ok := r.store.providers[id]
	if !ok {
		return nil, infra.WrapRepoErr("provider not found", errNoRows, infra.KindNotFound)
	}
	return p, nil
}

func (r *fakeReads) SlotByID(_ context.Context, id uuid.UUID) (*capacity.Slot, error) {
	slot, ok := r.store.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", errNoRows, infra.KindNotFound)
	}
	return slot, nil
}

func (r *fakeReads) TemplateByID(_ context.Context, id uuid.UUID) (*capacity.Template, error) {
	tpl, ok := r.store.templates[id]
	if !ok {
		return nil, infra.WrapRepoErr("template not found", errNoRows, infra.KindNotFound)
	}
	return tpl, nil
}

func (r *fakeReads) ActiveTemplates(_ context.Context) ([]*capacity.Template, error) {
	var out []*capacity.Template
	for _, tpl := range r.store.templates {
		if !tpl.IsActive() {
			continue
		}
		if p, ok := r.store.providers[tpl.ProviderID()]; !ok || !p.IsActive() {
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}

func (r *fakeReads) SlotStatsInRange(_ context.Context, rangeStart, rangeEnd time.Time, serviceType *capacity.ServiceType) ([]capacity.SlotStats, error) {
	var out []capacity.SlotStats
	for _, slot := range r.store.slots {
		start := slot.Window().Start()
		if start.Before(rangeStart) || !start.Before(rangeEnd) {
			continue
		}
		if serviceType != nil && slot.ServiceType() != *serviceType {
			continue
		}
		out = append(out, capacity.SlotStats{
			ServiceType:   slot.ServiceType(),
			Start:         start,
			MaxUnits:      slot.MaxUnits(),
			ReservedUnits: slot.ReservedUnits(),
		})
	}
	return out, nil
}

type fakeAuditLog struct {
	entries []shared.AuditEntry
	err     error
}

func (a *fakeAuditLog) Append(_ context.Context, entry shared.AuditEntry) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}
