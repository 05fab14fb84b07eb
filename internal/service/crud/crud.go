// Package crud implements the soft-delete lifecycle shared by every
// tenant-scoped entity: exclusive live/deleted listings, month filtering,
// tombstone delete/restore, and the deleted-row mutation guard. Entity
// services embed an Engine and keep only their own validation.
package crud

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

// Entity is implemented by pointer model types carrying a tombstone.
type Entity interface {
	comparable
	Deleted() bool
}

// Store is the repository surface the engine needs. Every tenant-scoped
// repository satisfies it.
type Store[T Entity] interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (T, error)
	List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]T, error)
	SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error)
}

type Engine[T Entity] struct {
	store    Store[T]
	resource string
}

func New[T Entity](store Store[T], resource string) *Engine[T] {
	return &Engine[T]{store: store, resource: resource}
}

// ParseFilter builds a ListFilter from raw query input. An unparseable month
// is a BadRequest, matching the wire contract.
func ParseFilter(includeDeleted, month string) (repository.ListFilter, error) {
	var f repository.ListFilter
	if includeDeleted != "" {
		v, err := strconv.ParseBool(includeDeleted)
		if err != nil {
			return repository.ListFilter{}, apperrors.BadRequest("includeDeleted must be a boolean")
		}
		f.IncludeDeleted = v
	}
	if month != "" {
		m, err := model.ParseMonth(month)
		if err != nil {
			return repository.ListFilter{}, apperrors.BadRequest(err.Error())
		}
		f.Month = &m
	}
	return f, nil
}

func (e *Engine[T]) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]T, error) {
	return e.store.List(ctx, tenantID, f)
}

// Get resolves a row regardless of tombstone state. Cross-tenant ids behave
// exactly like missing rows.
func (e *Engine[T]) Get(ctx context.Context, tenantID, id uuid.UUID) (T, error) {
	var zero T
	row, err := e.store.Get(ctx, tenantID, id)
	if err != nil {
		return zero, apperrors.Internal(err)
	}
	if row == zero {
		return zero, apperrors.NotFound(e.resource)
	}
	return row, nil
}

// GetLive resolves a row that must be mutable: missing is NotFound, deleted
// is BadRequest.
func (e *Engine[T]) GetLive(ctx context.Context, tenantID, id uuid.UUID) (T, error) {
	row, err := e.Get(ctx, tenantID, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if row.Deleted() {
		var zero T
		return zero, apperrors.BadRequestf("cannot modify a deleted %s", e.resource)
	}
	return row, nil
}

// Delete stamps the tombstone. The conditional write means a concurrent
// delete of the same row fails with the same BadRequest instead of silently
// overwriting the first actor's stamp.
func (e *Engine[T]) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	row, err := e.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if row.Deleted() {
		return apperrors.BadRequestf("%s is already deleted", e.resource)
	}

	now := time.Now()
	ok, err := e.store.SetTombstone(ctx, tenantID, id, &now, &actorID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !ok {
		return apperrors.BadRequestf("%s is already deleted", e.resource)
	}
	return nil
}

// Restore clears the tombstone and returns the refreshed row; every other
// field keeps its pre-delete value.
func (e *Engine[T]) Restore(ctx context.Context, tenantID, id uuid.UUID) (T, error) {
	var zero T
	row, err := e.Get(ctx, tenantID, id)
	if err != nil {
		return zero, err
	}
	if !row.Deleted() {
		return zero, apperrors.BadRequestf("%s is not deleted", e.resource)
	}

	ok, err := e.store.SetTombstone(ctx, tenantID, id, nil, nil)
	if err != nil {
		return zero, apperrors.Internal(err)
	}
	if !ok {
		return zero, apperrors.BadRequestf("%s is not deleted", e.resource)
	}

	return e.Get(ctx, tenantID, id)
}
