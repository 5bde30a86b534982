package commands

import (
	"context"
	"log/slog"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/pkg/errs"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound = errs.New("capacity template not found")
	ErrInvalidTemplate  = errs.New("invalid template definition")
)

type CreateTemplateParams struct {
	ProviderID  uuid.UUID
	ServiceType string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	MaxUnits    int32
}

type TemplateCommands interface {
	CreateTemplate(ctx context.Context, params CreateTemplateParams, actor string) (uuid.UUID, error)
	DeactivateTemplate(ctx context.Context, templateID uuid.UUID, actor string) error
}

type templateCommandsImpl struct {
	uow   shared.UnitOfWork
	audit shared.AuditLog
}

func NewTemplateCommands(uow shared.UnitOfWork, audit shared.AuditLog) TemplateCommands {
	return &templateCommandsImpl{uow: uow, audit: audit}
}

func (uc *templateCommandsImpl) CreateTemplate(ctx context.Context, params CreateTemplateParams, actor string) (uuid.UUID, error) {
	serviceType := capacity.ServiceType(params.ServiceType)
	if !serviceType.IsValid() {
		return uuid.Nil, ErrInvalidServiceType
	}

	startTime, err := capacity.ParseMinuteOfDay(params.StartTime)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidTemplate)
	}
	endTime, err := capacity.ParseMinuteOfDay(params.EndTime)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidTemplate)
	}

	var templateID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		prov, err := tx.Reads().ProviderByID(ctx, params.ProviderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProviderNotFound
			}
			return err
		}
		if err := prov.CanSchedule(serviceType); err != nil {
			return mapProviderErr(err)
		}

		tpl, err := capacity.NewTemplate(
			params.ProviderID, serviceType,
			params.DayOfWeek, startTime, endTime, params.MaxUnits,
		)
		if err != nil {
			return errs.Mark(err, ErrInvalidTemplate)
		}

		if err := tx.Templates().Create(ctx, tpl); err != nil {
			return err
		}

		templateID = tpl.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.appendAudit(ctx, actor, "template.create", templateID, map[string]any{
		"provider_id":  params.ProviderID,
		"service_type": params.ServiceType,
		"day_of_week":  params.DayOfWeek,
		"start_time":   params.StartTime,
		"end_time":     params.EndTime,
		"max_units":    params.MaxUnits,
	})

	return templateID, nil
}

func (uc *templateCommandsImpl) DeactivateTemplate(ctx context.Context, templateID uuid.UUID, actor string) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Templates().Deactivate(ctx, templateID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.appendAudit(ctx, actor, "template.deactivate", templateID, map[string]any{
		"is_active": shared.FieldChange{From: true, To: false},
	})
	return nil
}

func (uc *templateCommandsImpl) appendAudit(ctx context.Context, actor, action string, entityID uuid.UUID, changes map[string]any) {
	entry := shared.AuditEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "capacity_template",
		EntityID:   entityID,
		Changes:    changes,
	}
	if err := uc.audit.Append(ctx, entry); err != nil {
		slog.Warn("audit log append failed", "action", action, "entity_id", entityID, "error", err.Error())
	}
}
