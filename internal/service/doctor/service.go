// Package doctor manages the tenant's professionals.
package doctor

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

const (
	maxNameLen = 100
	maxCRMLen  = 50
)

type CreateInput struct {
	FirstName        string
	LastName         string
	CRM              *string
	SpecialtyID      *uuid.UUID
	PercProfessional float64
	AppointmentFee   float64
}

type UpdateInput struct {
	FirstName        *string
	LastName         *string
	CRM              *string
	SpecialtyID      *uuid.UUID
	PercProfessional *float64
	AppointmentFee   *float64
}

func (in UpdateInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.CRM == nil &&
		in.SpecialtyID == nil && in.PercProfessional == nil && in.AppointmentFee == nil
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func engine(store repository.Store) *crud.Engine[*model.Doctor] {
	return crud.New[*model.Doctor](store.Doctors(), "doctor")
}

func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, in CreateInput) (*model.Doctor, error) {
	firstName, err := validateName("firstName", in.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := validateName("lastName", in.LastName)
	if err != nil {
		return nil, err
	}
	crm, err := validateCRM(in.CRM)
	if err != nil {
		return nil, err
	}
	if err := validatePercentage(in.PercProfessional); err != nil {
		return nil, err
	}
	if in.AppointmentFee < 0 {
		return nil, apperrors.BadRequest("appointmentFee must not be negative")
	}

	doctor := &model.Doctor{
		TenantID:         tenantID,
		FirstName:        firstName,
		LastName:         lastName,
		CRM:              crm,
		SpecialtyID:      in.SpecialtyID,
		PercProfessional: in.PercProfessional,
		AppointmentFee:   in.AppointmentFee,
	}
	doctor.CreatedBy = &actorID
	doctor.UpdatedBy = &actorID

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := checkSpecialty(ctx, tx, tenantID, in.SpecialtyID); err != nil {
			return err
		}
		return tx.Doctors().Create(ctx, doctor)
	})
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Doctor, error) {
	return engine(s.store).Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter repository.ListFilter) ([]*model.Doctor, error) {
	return engine(s.store).List(ctx, tenantID, filter)
}

func (s *Service) Update(ctx context.Context, tenantID, id, actorID uuid.UUID, in UpdateInput) (*model.Doctor, error) {
	if in.empty() {
		return nil, apperrors.BadRequest("no fields to update")
	}

	var updated *model.Doctor
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doctor, err := engine(tx).GetLive(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if in.FirstName != nil {
			firstName, err := validateName("firstName", *in.FirstName)
			if err != nil {
				return err
			}
			doctor.FirstName = firstName
		}
		if in.LastName != nil {
			lastName, err := validateName("lastName", *in.LastName)
			if err != nil {
				return err
			}
			doctor.LastName = lastName
		}
		if in.CRM != nil {
			crm, err := validateCRM(in.CRM)
			if err != nil {
				return err
			}
			doctor.CRM = crm
		}
		if in.SpecialtyID != nil {
			if err := checkSpecialty(ctx, tx, tenantID, in.SpecialtyID); err != nil {
				return err
			}
			doctor.SpecialtyID = in.SpecialtyID
		}
		if in.PercProfessional != nil {
			if err := validatePercentage(*in.PercProfessional); err != nil {
				return err
			}
			doctor.PercProfessional = *in.PercProfessional
		}
		if in.AppointmentFee != nil {
			if *in.AppointmentFee < 0 {
				return apperrors.BadRequest("appointmentFee must not be negative")
			}
			doctor.AppointmentFee = *in.AppointmentFee
		}
		doctor.UpdatedBy = &actorID

		if err := tx.Doctors().Update(ctx, doctor); err != nil {
			return apperrors.Internal(err)
		}
		updated = doctor
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

func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*model.Doctor, error) {
	return engine(s.store).Restore(ctx, tenantID, id)
}

func validateName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > maxNameLen {
		return "", apperrors.BadRequestf("%s must be between 1 and %d characters", field, maxNameLen)
	}
	return name, nil
}

func validateCRM(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	crm := strings.TrimSpace(*raw)
	if crm == "" {
		return nil, nil
	}
	if len(crm) > maxCRMLen {
		return nil, apperrors.BadRequestf("crm must be at most %d characters", maxCRMLen)
	}
	return &crm, nil
}

func validatePercentage(v float64) error {
	if v < 0 || v > 100 {
		return apperrors.BadRequest("percProfessional must be between 0 and 100")
	}
	return nil
}

// checkSpecialty requires a referenced specialty to resolve live in-tenant.
func checkSpecialty(ctx context.Context, store repository.Store, tenantID uuid.UUID, specialtyID *uuid.UUID) error {
	if specialtyID == nil {
		return nil
	}
	specialty, err := store.Specialties().Get(ctx, tenantID, *specialtyID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if specialty == nil || specialty.Deleted() {
		return apperrors.BadRequest("specialty does not exist")
	}
	return nil
}
