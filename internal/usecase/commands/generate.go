package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/pkg/clock"
	"capacity-engine/internal/pkg/errs"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRangeTooLarge       = errs.New("generation range exceeds the maximum")
	ErrInvalidDateRange    = errs.New("end date must not be before start date")
	ErrTemplateInactive    = errs.New("template is inactive")
	ErrProviderUnavailable = errs.New("template provider cannot schedule slots")
)

// maxConflictReport caps how many conflicting start times a rejected bulk
// generation reports back.
const maxConflictReport = 5

const populationActor = "population-job"

// BulkConflictError carries the first few conflicting candidate start times
// so the caller can point at the exact collisions.
type BulkConflictError struct {
	Starts []time.Time
}

func (e *BulkConflictError) Error() string {
	return fmt.Sprintf("%d candidate slots conflict with existing slots", len(e.Starts))
}

type PopulateError struct {
	TemplateID uuid.UUID
	SlotStart  time.Time
	Message    string
}

type PopulateResult struct {
	Created int
	Skipped int
	Errors  []PopulateError
	RanAt   time.Time
}

type BulkGenerateResult struct {
	Created int
}

type GenerateCommands interface {
	// PopulateFromTemplates expands every active template over the rolling
	// horizon and fills any holes. Safe to re-run: existing slots at the
	// same start are skipped, and each candidate commits independently.
	PopulateFromTemplates(ctx context.Context) (*PopulateResult, error)
	// BulkGenerate expands one template over an explicit date range in a
	// single transaction: either every candidate is created or none are.
	// Unlike the scheduled job, a window already covered by an existing
	// slot counts as a conflict here, so re-generating a covered range
	// fails loudly instead of silently succeeding.
	BulkGenerate(ctx context.Context, templateID uuid.UUID, startDate, endDate time.Time, actor string) (*BulkGenerateResult, error)
}

type generateCommandsImpl struct {
	uow         shared.UnitOfWork
	audit       shared.AuditLog
	clock       clock.Clock
	horizonDays int
	bulkMaxDays int
}

func NewGenerateCommands(uow shared.UnitOfWork, audit shared.AuditLog, clk clock.Clock, horizonDays, bulkMaxDays int) GenerateCommands {
	return &generateCommandsImpl{
		uow:         uow,
		audit:       audit,
		clock:       clk,
		horizonDays: horizonDays,
		bulkMaxDays: bulkMaxDays,
	}
}

func (uc *generateCommandsImpl) PopulateFromTemplates(ctx context.Context) (*PopulateResult, error) {
	now := uc.clock.Now()
	rangeEnd := now.AddDate(0, 0, uc.horizonDays)

	templates, err := uc.uow.Reads().ActiveTemplates(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load active templates")
	}

	result := &PopulateResult{RanAt: now}
	for _, tpl := range templates {
		for _, window := range tpl.Expand(now, rangeEnd, now) {
			// One transaction per candidate: a failure on one template
			// must not roll back slots already created for others.
			created, err := uc.createFromTemplate(ctx, tpl, window, now)
			if err != nil {
				slog.Warn("population job candidate failed",
					"template_id", tpl.ID(),
					"slot_start", window.Start(),
					"error", err.Error(),
				)
				result.Errors = append(result.Errors, PopulateError{
					TemplateID: tpl.ID(),
					SlotStart:  window.Start(),
					Message:    err.Error(),
				})
				continue
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}

	slog.Info("population job finished",
		"templates", len(templates),
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (uc *generateCommandsImpl) createFromTemplate(ctx context.Context, tpl *capacity.Template, window capacity.TimeWindow, now time.Time) (bool, error) {
	var created bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockProvider(ctx, tpl.ProviderID()); err != nil {
			return err
		}

		exists, err := tx.Slots().ExistsAtStart(ctx, tpl.ProviderID(), tpl.ServiceType(), window.Start())
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		conflict, err := tx.Slots().HasOverlap(ctx, tpl.ProviderID(), window, nil)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}

		slot, err := capacity.NewSlot(
			tpl.ProviderID(), tpl.ServiceType(), window, tpl.MaxUnits(),
			fmt.Sprintf("generated from template %s", tpl.ID()),
			populationActor,
		)
		if err != nil {
			return err
		}

		if err := tx.Slots().Create(ctx, slot); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (uc *generateCommandsImpl) BulkGenerate(ctx context.Context, templateID uuid.UUID, startDate, endDate time.Time, actor string) (*BulkGenerateResult, error) {
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}
	if int(endDate.Sub(startDate).Hours()/24) > uc.bulkMaxDays {
		return nil, ErrRangeTooLarge
	}

	now := uc.clock.Now()
	result := &BulkGenerateResult{}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result.Created = 0

		tpl, err := tx.Reads().TemplateByID(ctx, templateID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}
		if !tpl.IsActive() {
			return ErrTemplateInactive
		}

		prov, err := tx.Reads().ProviderByID(ctx, tpl.ProviderID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProviderNotFound
			}
			return err
		}
		if err := prov.CanSchedule(tpl.ServiceType()); err != nil {
			return errs.Mark(err, ErrProviderUnavailable)
		}

		if err := tx.LockProvider(ctx, tpl.ProviderID()); err != nil {
			return err
		}

		windows := tpl.Expand(startDate, endDate, now)

		// Pre-flight every candidate before inserting anything so a
		// conflicting range produces no partial writes. Slots already
		// generated at the exact same start overlap too and are reported
		// the same way.
		var pending []capacity.TimeWindow
		var conflicts []time.Time
		for _, window := range windows {
			conflict, err := tx.Slots().HasOverlap(ctx, tpl.ProviderID(), window, nil)
			if err != nil {
				return err
			}
			if conflict {
				if len(conflicts) < maxConflictReport {
					conflicts = append(conflicts, window.Start())
				}
				continue
			}

			pending = append(pending, window)
		}
		if len(conflicts) > 0 {
			return &BulkConflictError{Starts: conflicts}
		}

		for _, window := range pending {
			slot, err := capacity.NewSlot(
				tpl.ProviderID(), tpl.ServiceType(), window, tpl.MaxUnits(),
				fmt.Sprintf("generated from template %s", tpl.ID()),
				actor,
			)
			if err != nil {
				return err
			}
			if err := tx.Slots().Create(ctx, slot); err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.appendAudit(ctx, actor, templateID, startDate, endDate, result)
	return result, nil
}

func (uc *generateCommandsImpl) appendAudit(ctx context.Context, actor string, templateID uuid.UUID, startDate, endDate time.Time, result *BulkGenerateResult) {
	entry := shared.AuditEntry{
		Actor:      actor,
		Action:     "template.bulk_generate",
		EntityType: "capacity_template",
		EntityID:   templateID,
		Changes: map[string]any{
			"start_date": startDate.Format("2006-01-02"),
			"end_date":   endDate.Format("2006-01-02"),
			"created":    result.Created,
		},
	}
	if err := uc.audit.Append(ctx, entry); err != nil {
		slog.Warn("audit log append failed", "action", entry.Action, "entity_id", templateID, "error", err.Error())
	}
}
