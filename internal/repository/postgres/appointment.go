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

type appointmentRepository struct {
	q Querier
}

const appointmentColumns = `
	id, tenant_id, doctor_id, fee, perc_professional, datetime,
	created_at, created_by, updated_at, updated_by, deleted_at, deleted_by
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, doctor_id, fee, perc_professional, datetime,
			created_at, created_by, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		appointment.ID,
		appointment.TenantID,
		appointment.DoctorID,
		appointment.Fee,
		appointment.PercProfessional,
		appointment.Datetime,
		appointment.CreatedAt,
		appointment.CreatedBy,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE tenant_id = $1 AND id = $2`

	var appointment model.Appointment
	err := r.q.GetContext(ctx, &appointment, query, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE tenant_id = $1 AND ` +
		deletedClause(f.IncludeDeleted)
	args := []interface{}{tenantID}

	if f.Month != nil {
		query += ` AND datetime >= $2 AND datetime <= $3`
		args = append(args, f.Month.Start(), f.Month.End())
	}
	query += ` ORDER BY datetime DESC`

	appointments := []*model.Appointment{}
	if err := r.q.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, tenantID, doctorID uuid.UUID, month model.Month) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE tenant_id = $1 AND doctor_id = $2 AND deleted_at IS NULL
		AND datetime >= $3 AND datetime <= $4
		ORDER BY datetime ASC`

	appointments := []*model.Appointment{}
	if err := r.q.SelectContext(ctx, &appointments, query, tenantID, doctorID, month.Start(), month.End()); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForMonth(ctx context.Context, tenantID uuid.UUID, month model.Month) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE tenant_id = $1 AND deleted_at IS NULL
		AND datetime >= $2 AND datetime <= $3
		ORDER BY datetime ASC`

	appointments := []*model.Appointment{}
	if err := r.q.SelectContext(ctx, &appointments, query, tenantID, month.Start(), month.End()); err != nil {
		return nil, fmt.Errorf("failed to list month appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_id = $1, fee = $2, perc_professional = $3, datetime = $4,
			updated_at = $5, updated_by = $6
		WHERE tenant_id = $7 AND id = $8 AND deleted_at IS NULL
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		appointment.DoctorID,
		appointment.Fee,
		appointment.PercProfessional,
		appointment.Datetime,
		appointment.UpdatedAt,
		appointment.UpdatedBy,
		appointment.TenantID,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	return setTombstone(ctx, r.q, "appointments", tenantID, id, deletedAt, deletedBy)
}
