// Package specialty manages the per-tenant specialty catalog.
package specialty

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

const maxNameLen = 100

type CreateInput struct {
	Name       string
	DefaultFee float64
}

type UpdateInput struct {
	Name       *string
	DefaultFee *float64
}

func (in UpdateInput) empty() bool { return in.Name == nil && in.DefaultFee == nil }

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func engine(store repository.Store) *crud.Engine[*model.Specialty] {
	return crud.New[*model.Specialty](store.Specialties(), "specialty")
}

func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, in CreateInput) (*model.Specialty, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.DefaultFee < 0 {
		return nil, apperrors.BadRequest("defaultFee must not be negative")
	}

	specialty := &model.Specialty{
		TenantID:   tenantID,
		Name:       name,
		DefaultFee: in.DefaultFee,
	}
	specialty.CreatedBy = &actorID
	specialty.UpdatedBy = &actorID

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := checkNameFree(ctx, tx, tenantID, name, uuid.Nil); err != nil {
			return err
		}
		return tx.Specialties().Create(ctx, specialty)
	})
	if err != nil {
		return nil, err
	}
	return specialty, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Specialty, error) {
	return engine(s.store).Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter repository.ListFilter) ([]*model.Specialty, error) {
	return engine(s.store).List(ctx, tenantID, filter)
}

func (s *Service) Update(ctx context.Context, tenantID, id, actorID uuid.UUID, in UpdateInput) (*model.Specialty, error) {
	if in.empty() {
		return nil, apperrors.BadRequest("no fields to update")
	}

	var updated *model.Specialty
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		specialty, err := engine(tx).GetLive(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := validateName(*in.Name)
			if err != nil {
				return err
			}
			if name != specialty.Name {
				if err := checkNameFree(ctx, tx, tenantID, name, specialty.ID); err != nil {
					return err
				}
			}
			specialty.Name = name
		}
		if in.DefaultFee != nil {
			if *in.DefaultFee < 0 {
				return apperrors.BadRequest("defaultFee must not be negative")
			}
			specialty.DefaultFee = *in.DefaultFee
		}
		specialty.UpdatedBy = &actorID

		if err := tx.Specialties().Update(ctx, specialty); err != nil {
			return apperrors.Internal(err)
		}
		updated = specialty
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

func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*model.Specialty, error) {
	return engine(s.store).Restore(ctx, tenantID, id)
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > maxNameLen {
		return "", apperrors.BadRequestf("name must be between 1 and %d characters", maxNameLen)
	}
	return name, nil
}

// checkNameFree enforces per-tenant name uniqueness among live rows only; a
// deleted specialty does not block reuse of its name.
func checkNameFree(ctx context.Context, store repository.Store, tenantID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := store.Specialties().GetLiveByName(ctx, tenantID, name)
	if err != nil {
		return apperrors.Internal(err)
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.Conflict("a specialty with this name already exists")
	}
	return nil
}
