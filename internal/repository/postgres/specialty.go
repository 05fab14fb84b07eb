package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
)

type specialtyRepository struct {
	q Querier
}

const specialtyColumns = `
	id, tenant_id, name, default_fee,
	created_at, created_by, updated_at, updated_by, deleted_at, deleted_by
`

func (r *specialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	query := `
		INSERT INTO specialties (
			id, tenant_id, name, default_fee, created_at, created_by, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if specialty.ID == uuid.Nil {
		specialty.ID = uuid.New()
	}
	specialty.CreatedAt = time.Now()
	specialty.UpdatedAt = specialty.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		specialty.ID,
		specialty.TenantID,
		specialty.Name,
		specialty.DefaultFee,
		specialty.CreatedAt,
		specialty.CreatedBy,
		specialty.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	return nil
}

func (r *specialtyRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Specialty, error) {
	query := `SELECT ` + specialtyColumns + ` FROM specialties WHERE tenant_id = $1 AND id = $2`

	var specialty model.Specialty
	err := r.q.GetContext(ctx, &specialty, query, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) GetLiveByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Specialty, error) {
	query := `SELECT ` + specialtyColumns + ` FROM specialties
		WHERE tenant_id = $1 AND name = $2 AND deleted_at IS NULL`

	var specialty model.Specialty
	err := r.q.GetContext(ctx, &specialty, query, tenantID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty by name: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Specialty, error) {
	query := `SELECT ` + specialtyColumns + ` FROM specialties WHERE tenant_id = $1 AND ` +
		deletedClause(f.IncludeDeleted) + ` ORDER BY created_at DESC`

	specialties := []*model.Specialty{}
	if err := r.q.SelectContext(ctx, &specialties, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}

func (r *specialtyRepository) Update(ctx context.Context, specialty *model.Specialty) error {
	query := `
		UPDATE specialties
		SET name = $1, default_fee = $2, updated_at = $3, updated_by = $4
		WHERE tenant_id = $5 AND id = $6 AND deleted_at IS NULL
	`
	specialty.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		specialty.Name,
		specialty.DefaultFee,
		specialty.UpdatedAt,
		specialty.UpdatedBy,
		specialty.TenantID,
		specialty.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update specialty: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("specialty not found")
	}
	return nil
}

func (r *specialtyRepository) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	return setTombstone(ctx, r.q, "specialties", tenantID, id, deletedAt, deletedBy)
}
