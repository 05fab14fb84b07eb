// Package appointment manages scheduled appointments. Fee and professional
// percentage are snapshotted onto the row at creation; later changes to the
// doctor's rates never rewrite history.
package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

type CreateInput struct {
	DoctorID uuid.UUID
	Datetime time.Time

	// Fee and PercProfessional default to the doctor's current rates.
	Fee              *float64
	PercProfessional *float64
}

type UpdateInput struct {
	DoctorID         *uuid.UUID
	Datetime         *time.Time
	Fee              *float64
	PercProfessional *float64
}

func (in UpdateInput) empty() bool {
	return in.DoctorID == nil && in.Datetime == nil && in.Fee == nil && in.PercProfessional == nil
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func engine(store repository.Store) *crud.Engine[*model.Appointment] {
	return crud.New[*model.Appointment](store.Appointments(), "appointment")
}

func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, in CreateInput) (*model.Appointment, error) {
	if in.Datetime.IsZero() {
		return nil, apperrors.BadRequest("datetime is required")
	}

	var created *model.Appointment
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doctor, err := liveDoctor(ctx, tx, tenantID, in.DoctorID)
		if err != nil {
			return err
		}

		fee := doctor.AppointmentFee
		if in.Fee != nil {
			fee = *in.Fee
		}
		if fee < 0 {
			return apperrors.BadRequest("fee must not be negative")
		}

		perc := doctor.PercProfessional
		if in.PercProfessional != nil {
			perc = *in.PercProfessional
		}
		if perc < 0 || perc > 100 {
			return apperrors.BadRequest("percProfessional must be between 0 and 100")
		}

		appointment := &model.Appointment{
			TenantID:         tenantID,
			DoctorID:         doctor.ID,
			Fee:              fee,
			PercProfessional: perc,
			Datetime:         in.Datetime,
		}
		appointment.CreatedBy = &actorID
		appointment.UpdatedBy = &actorID

		if err := tx.Appointments().Create(ctx, appointment); err != nil {
			return apperrors.Internal(err)
		}
		created = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	return engine(s.store).Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter repository.ListFilter) ([]*model.Appointment, error) {
	return engine(s.store).List(ctx, tenantID, filter)
}

func (s *Service) Update(ctx context.Context, tenantID, id, actorID uuid.UUID, in UpdateInput) (*model.Appointment, error) {
	if in.empty() {
		return nil, apperrors.BadRequest("no fields to update")
	}

	var updated *model.Appointment
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		appointment, err := engine(tx).GetLive(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if in.DoctorID != nil {
			doctor, err := liveDoctor(ctx, tx, tenantID, *in.DoctorID)
			if err != nil {
				return err
			}
			appointment.DoctorID = doctor.ID
		}
		if in.Datetime != nil {
			if in.Datetime.IsZero() {
				return apperrors.BadRequest("datetime is required")
			}
			appointment.Datetime = *in.Datetime
		}
		if in.Fee != nil {
			if *in.Fee < 0 {
				return apperrors.BadRequest("fee must not be negative")
			}
			appointment.Fee = *in.Fee
		}
		if in.PercProfessional != nil {
			if *in.PercProfessional < 0 || *in.PercProfessional > 100 {
				return apperrors.BadRequest("percProfessional must be between 0 and 100")
			}
			appointment.PercProfessional = *in.PercProfessional
		}
		appointment.UpdatedBy = &actorID

		if err := tx.Appointments().Update(ctx, appointment); err != nil {
			return apperrors.Internal(err)
		}
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	return engine(s.store).Delete(ctx, tenantID, id, actorID)
}

func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	return engine(s.store).Restore(ctx, tenantID, id)
}

func liveDoctor(ctx context.Context, store repository.Store, tenantID, doctorID uuid.UUID) (*model.Doctor, error) {
	doctor, err := store.Doctors().Get(ctx, tenantID, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if doctor == nil || doctor.Deleted() {
		return nil, apperrors.BadRequest("doctor does not exist")
	}
	return doctor, nil
}
