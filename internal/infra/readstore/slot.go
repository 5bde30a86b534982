package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"capacity-engine/internal/domain/capacity"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/pkg/pgconv"
	"capacity-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

const slotViewColumns = `
	s.id, s.provider_id, p.name, s.service_type, s.slot_start, s.slot_end,
	s.max_units, s.reserved_units, s.notes, s.created_by, s.created_at, s.updated_at`

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	query := `
		SELECT ` + slotViewColumns + `
		FROM capacity_slots s
		JOIN providers p ON p.id = s.provider_id
		WHERE s.id = $1`

	view, err := scanSlotView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("capacity slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find capacity slot", err)
	}

	return view, nil
}

func (r *SlotReadStore) List(ctx context.Context, filter queries.SlotFilter) ([]*queries.SlotView, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ProviderID != nil {
		add("s.provider_id = $%d", *filter.ProviderID)
	}
	if filter.ServiceType != nil {
		add("s.service_type = $%d", *filter.ServiceType)
	}
	if filter.StartDate != nil {
		add("s.slot_start >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("s.slot_start < $%d", *filter.EndDate)
	}

	query := `
		SELECT ` + slotViewColumns + `
		FROM capacity_slots s
		JOIN providers p ON p.id = s.provider_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.slot_start, s.provider_id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list capacity slots", err)
	}
	defer rows.Close()

	var views []*queries.SlotView
	for rows.Next() {
		view, scanErr := scanSlotView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan capacity slot", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list capacity slots", err)
	}

	return views, nil
}

// SlotByID reconstructs the domain entity for command-side validation.
func (r *SlotReadStore) SlotByID(ctx context.Context, id uuid.UUID) (*capacity.Slot, error) {
	const query = `
		SELECT id, provider_id, service_type, slot_start, slot_end,
		       max_units, reserved_units, notes, created_by, created_at, updated_at
		FROM capacity_slots
		WHERE id = $1`

	var (
		slotID, providerID   uuid.UUID
		serviceType          string
		slotStart, slotEnd   time.Time
		maxUnits, reserved   int32
		notes                pgtype.Text
		createdBy            string
		createdAt, updatedAt time.Time
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&slotID, &providerID, &serviceType, &slotStart, &slotEnd,
		&maxUnits, &reserved, &notes, &createdBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("capacity slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find capacity slot", err)
	}

	window, err := capacity.NewTimeWindow(slotStart, slotEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("stored slot has invalid window", err)
	}

	slot, err := capacity.ReconstructSlot(
		slotID, providerID,
		capacity.ServiceType(serviceType),
		window,
		maxUnits, reserved,
		notes.String, createdBy,
		createdAt, updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("stored slot violates invariants", err)
	}

	return slot, nil
}

// StatsInRange feeds the metrics calculator: slots whose start falls in
// [rangeStart, rangeEnd), optionally narrowed to one service kind.
func (r *SlotReadStore) StatsInRange(ctx context.Context, rangeStart, rangeEnd time.Time, serviceType *capacity.ServiceType) ([]capacity.SlotStats, error) {
	const query = `
		SELECT service_type, slot_start, max_units, reserved_units
		FROM capacity_slots
		WHERE slot_start >= $1 AND slot_start < $2
		  AND ($3::text IS NULL OR service_type = $3)
		ORDER BY slot_start`

	var svc *string
	if serviceType != nil {
		s := serviceType.String()
		svc = &s
	}

	rows, err := r.db.Query(ctx, query, rangeStart, rangeEnd, svc)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load slot stats", err)
	}
	defer rows.Close()

	var stats []capacity.SlotStats
	for rows.Next() {
		var (
			st       string
			start    time.Time
			maxU     int32
			reserved int32
		)
		if scanErr := rows.Scan(&st, &start, &maxU, &reserved); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan slot stats", scanErr)
		}
		stats = append(stats, capacity.SlotStats{
			ServiceType:   capacity.ServiceType(st),
			Start:         start,
			MaxUnits:      maxU,
			ReservedUnits: reserved,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to load slot stats", err)
	}

	return stats, nil
}

type slotRowScanner interface {
	Scan(dest ...any) error
}

func scanSlotView(row slotRowScanner) (*queries.SlotView, error) {
	var (
		view  queries.SlotView
		notes pgtype.Text
	)

	err := row.Scan(
		&view.ID, &view.ProviderID, &view.ProviderName, &view.ServiceType,
		&view.SlotStart, &view.SlotEnd, &view.MaxUnits, &view.ReservedUnits,
		&notes, &view.CreatedBy, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	view.Notes = pgconv.StringPtrFromPgtype(notes)
	fillDerivedFields(&view)
	return &view, nil
}

// Derived fields are computed on read, never stored.
func fillDerivedFields(view *queries.SlotView) {
	view.AvailableUnits = view.MaxUnits - view.ReservedUnits

	if view.MaxUnits > 0 {
		view.UtilizationPercent = int32(float64(view.ReservedUnits)/float64(view.MaxUnits)*100 + 0.5)
	}

	switch {
	case view.ReservedUnits == 0:
		view.Status = capacity.StatusAvailable.String()
	case view.ReservedUnits < view.MaxUnits:
		view.Status = capacity.StatusPartial.String()
	default:
		view.Status = capacity.StatusFull.String()
	}
}
