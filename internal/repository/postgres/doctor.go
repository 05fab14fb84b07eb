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

type doctorRepository struct {
	q Querier
}

const doctorColumns = `
	id, tenant_id, first_name, last_name, crm, specialty_id,
	perc_professional, appointment_fee,
	created_at, created_by, updated_at, updated_by, deleted_at, deleted_by
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, tenant_id, first_name, last_name, crm, specialty_id,
			perc_professional, appointment_fee, created_at, created_by, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		doctor.ID,
		doctor.TenantID,
		doctor.FirstName,
		doctor.LastName,
		doctor.CRM,
		doctor.SpecialtyID,
		doctor.PercProfessional,
		doctor.AppointmentFee,
		doctor.CreatedAt,
		doctor.CreatedBy,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE tenant_id = $1 AND id = $2`

	var doctor model.Doctor
	err := r.q.GetContext(ctx, &doctor, query, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE tenant_id = $1 AND ` +
		deletedClause(f.IncludeDeleted) + ` ORDER BY created_at DESC`

	doctors := []*model.Doctor{}
	if err := r.q.SelectContext(ctx, &doctors, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET first_name = $1, last_name = $2, crm = $3, specialty_id = $4,
			perc_professional = $5, appointment_fee = $6, updated_at = $7, updated_by = $8
		WHERE tenant_id = $9 AND id = $10 AND deleted_at IS NULL
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		doctor.FirstName,
		doctor.LastName,
		doctor.CRM,
		doctor.SpecialtyID,
		doctor.PercProfessional,
		doctor.AppointmentFee,
		doctor.UpdatedAt,
		doctor.UpdatedBy,
		doctor.TenantID,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor not found")
	}
	return nil
}

func (r *doctorRepository) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	return setTombstone(ctx, r.q, "doctors", tenantID, id, deletedAt, deletedBy)
}
