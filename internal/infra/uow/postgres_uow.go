package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"capacity-engine/internal/domain/capacity"
	domprovider "capacity-engine/internal/domain/provider"
	"capacity-engine/internal/infra"
	"capacity-engine/internal/infra/db"
	"capacity-engine/internal/infra/readstore"
	"capacity-engine/internal/infra/repository"
	"capacity-engine/internal/pkg/errs"
	"capacity-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes; the
// per-provider advisory lock carries the stronger serialization slot
// writers need.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) {
			return err
		}
		if attempt == maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, base)
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) Reads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	slotRepo     shared.SlotRepository
	templateRepo shared.TemplateRepository
	alertRepo    shared.AlertRepository
	reads        shared.CommandReads
}

// LockProvider takes a transaction-scoped advisory lock keyed by the
// provider ID, serializing the overlap check with the following write.
// Released automatically at commit/rollback.
func (t *pgTx) LockProvider(ctx context.Context, providerID uuid.UUID) error {
	_, err := t.dbtx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, providerID)
	if err != nil {
		return infra.WrapRepoErr("failed to acquire provider lock", err)
	}
	return nil
}

func (t *pgTx) Slots() shared.SlotRepository {
	if t.slotRepo == nil {
		t.slotRepo = repository.NewSlotRepository(t.dbtx)
	}
	return t.slotRepo
}

func (t *pgTx) Templates() shared.TemplateRepository {
	if t.templateRepo == nil {
		t.templateRepo = repository.NewTemplateRepository(t.dbtx)
	}
	return t.templateRepo
}

func (t *pgTx) Alerts() shared.AlertRepository {
	if t.alertRepo == nil {
		t.alertRepo = repository.NewAlertRepository(t.dbtx)
	}
	return t.alertRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = &commandReads{dbtx: t.dbtx}
	}
	return t.reads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	providerStore *readstore.ProviderReadStore
	slotStore     *readstore.SlotReadStore
	templateStore *readstore.TemplateReadStore
}

func (r *commandReads) ProviderByID(ctx context.Context, id uuid.UUID) (*domprovider.Provider, error) {
	if r.providerStore == nil {
		r.providerStore = readstore.NewProviderReadStore(r.dbtx)
	}
	return r.providerStore.FindByID(ctx, id)
}

func (r *commandReads) SlotByID(ctx context.Context, id uuid.UUID) (*capacity.Slot, error) {
	if r.slotStore == nil {
		r.slotStore = readstore.NewSlotReadStore(r.dbtx)
	}
	return r.slotStore.SlotByID(ctx, id)
}

func (r *commandReads) TemplateByID(ctx context.Context, id uuid.UUID) (*capacity.Template, error) {
	if r.templateStore == nil {
		r.templateStore = readstore.NewTemplateReadStore(r.dbtx)
	}
	return r.templateStore.FindByID(ctx, id)
}

func (r *commandReads) ActiveTemplates(ctx context.Context) ([]*capacity.Template, error) {
	if r.templateStore == nil {
		r.templateStore = readstore.NewTemplateReadStore(r.dbtx)
	}
	return r.templateStore.ActiveTemplates(ctx)
}

func (r *commandReads) SlotStatsInRange(ctx context.Context, rangeStart, rangeEnd time.Time, serviceType *capacity.ServiceType) ([]capacity.SlotStats, error) {
	if r.slotStore == nil {
		r.slotStore = readstore.NewSlotReadStore(r.dbtx)
	}
	return r.slotStore.StatsInRange(ctx, rangeStart, rangeEnd, serviceType)
}
