// Package repository provides a generic CRUD façade over a relational store.
//
// Every operation runs under a bounded retry policy for transient connection
// failures; exhausted retries surface as *UnavailableError. All writes happen
// inside one transaction scope with rollback on any error. Uniqueness
// violations from the driver are mapped to *ConflictError so callers never
// see raw constraint errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/internal/retry"
	"github.com/goliatone/go-catalog-cache/model"
)

// errAbsent marks a plain "no such row" inside the retry loop so it is
// neither retried nor reported as an outage.
var errAbsent = errors.New("repository: absent")

// ListOptions bounds a listing. Zero values mean "no bound"; callers such as
// pagination helpers are responsible for bounding unlimited listings.
type ListOptions struct {
	Limit  int
	Offset int
}

// Config carries the repository's ambient collaborators.
type Config struct {
	// Retry bounds attempts against a flapping connection. The zero value
	// uses retry.DefaultConfig.
	Retry  retry.Config
	Logger *zap.Logger
}

// Repository is a generic CRUD façade for one record type. Independent of
// the cache; the service layer composes the two.
type Repository[T any] struct {
	db     *bun.DB
	h      model.Handlers[T]
	entity string
	retry  retry.Config
	log    *zap.Logger
}

// New creates a repository for one record type. entity names the record kind
// in errors and logs ("book", "user").
func New[T any](db *bun.DB, entity string, h model.Handlers[T], cfg Config) *Repository[T] {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rcfg := cfg.Retry
	if rcfg.MaxAttempts == 0 {
		rcfg = retry.DefaultConfig()
	}
	if rcfg.OnRetry == nil {
		rcfg.OnRetry = func(attempt int, err error, delay time.Duration) {
			log.Warn("repository retry",
				zap.String("entity", entity),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
		}
	}
	return &Repository[T]{db: db, h: h, entity: entity, retry: rcfg, log: log}
}

// Create persists rec and returns it fully populated: a fresh identifier
// when none is set, and server-assigned creation/update timestamps.
func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	created, err := retry.Do(ctx, r.retry, func(ctx context.Context) (T, error) {
		now := time.Now().UTC()
		if r.h.ID(rec) == uuid.Nil {
			r.h.SetID(rec, uuid.New())
		}
		r.h.SetCreatedAt(rec, now)
		r.h.SetUpdatedAt(rec, now)

		err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewInsert().Model(rec).Exec(ctx)
			return err
		})
		if err != nil {
			return zero, err
		}
		return rec, nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return zero, &ConflictError{Entity: r.entity}
		}
		return zero, r.wrap("create", err)
	}
	return created, nil
}

// Get returns the record for id, or (zero, false, nil) when absent.
func (r *Repository[T]) Get(ctx context.Context, id uuid.UUID) (T, bool, error) {
	var zero T
	rec, err := retry.Do(ctx, r.retry, func(ctx context.Context) (T, error) {
		rec := r.h.NewRecord()
		err := r.db.NewSelect().Model(rec).Where("uuid = ?", id).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return zero, errAbsent
		}
		if err != nil {
			return zero, err
		}
		return rec, nil
	})
	if errors.Is(err, errAbsent) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, r.wrap("get", err)
	}
	return rec, true, nil
}

// GetAll returns records ordered by creation time. Zero limit/offset return
// the full set.
func (r *Repository[T]) GetAll(ctx context.Context, opts ListOptions) ([]T, error) {
	recs, err := retry.Do(ctx, r.retry, func(ctx context.Context) ([]T, error) {
		var recs []T
		q := r.db.NewSelect().Model(&recs).Order("created_at ASC")
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			q = q.Offset(opts.Offset)
		}
		if err := q.Scan(ctx); err != nil {
			return nil, err
		}
		return recs, nil
	})
	if err != nil {
		return nil, r.wrap("get_all", err)
	}
	return recs, nil
}

// Update applies only the columns present in patch (PATCH semantics) and
// bumps updated_at, returning the updated record. Fails with *NotFoundError
// when id does not exist.
func (r *Repository[T]) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (T, error) {
	var zero T
	rec, err := retry.Do(ctx, r.retry, func(ctx context.Context) (T, error) {
		updated := r.h.NewRecord()
		err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			q := tx.NewUpdate().Model(r.h.NewRecord()).Where("uuid = ?", id)
			for col, val := range patch {
				q = q.Set("? = ?", bun.Ident(col), val)
			}
			q = q.Set("updated_at = ?", time.Now().UTC())

			res, err := q.Exec(ctx)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return errAbsent
			}
			return tx.NewSelect().Model(updated).Where("uuid = ?", id).Scan(ctx)
		})
		if err != nil {
			return zero, err
		}
		return updated, nil
	})
	if errors.Is(err, errAbsent) {
		return zero, &NotFoundError{Entity: r.entity, ID: id}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return zero, &ConflictError{Entity: r.entity}
		}
		return zero, r.wrap("update", err)
	}
	return rec, nil
}

// Remove deletes the record for id and returns the id. Fails with
// *NotFoundError when id does not exist.
func (r *Repository[T]) Remove(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	_, err := retry.Do(ctx, r.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			res, err := tx.NewDelete().Model(r.h.NewRecord()).Where("uuid = ?", id).Exec(ctx)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return errAbsent
			}
			return nil
		})
	})
	if errors.Is(err, errAbsent) {
		return uuid.Nil, &NotFoundError{Entity: r.entity, ID: id}
	}
	if err != nil {
		return uuid.Nil, r.wrap("remove", err)
	}
	return id, nil
}

// Count returns the total record count.
func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	n, err := retry.Do(ctx, r.retry, func(ctx context.Context) (int, error) {
		return r.db.NewSelect().Model(r.h.NewRecord()).Count(ctx)
	})
	if err != nil {
		return 0, r.wrap("count", err)
	}
	return n, nil
}

// GetIDByFilter returns the identifier of the first record matching all the
// given column filters, used by uniqueness pre-checks. An empty filter set
// fails with *InvalidArgumentError; no match returns (uuid.Nil, false, nil).
func (r *Repository[T]) GetIDByFilter(ctx context.Context, filters map[string]any) (uuid.UUID, bool, error) {
	if len(filters) == 0 {
		return uuid.Nil, false, &InvalidArgumentError{Reason: "filter set is empty"}
	}
	id, err := retry.Do(ctx, r.retry, func(ctx context.Context) (uuid.UUID, error) {
		var id uuid.UUID
		q := r.db.NewSelect().Model(r.h.NewRecord()).Column("uuid")
		for col, val := range filters {
			q = q.Where("? = ?", bun.Ident(col), val)
		}
		err := q.Limit(1).Scan(ctx, &id)
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, errAbsent
		}
		return id, err
	})
	if errors.Is(err, errAbsent) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, r.wrap("get_id_by_filter", err)
	}
	return id, true, nil
}

// wrap classifies an exhausted-retry error: transient connectivity failures
// become *UnavailableError, everything else passes through unchanged.
func (r *Repository[T]) wrap(op string, err error) error {
	if retry.Transient(err) {
		return &UnavailableError{Op: op, Err: err}
	}
	return err
}
