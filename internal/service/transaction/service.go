// Package transaction manages manual ledger entries (income and expenses
// outside of appointment revenue).
package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

const maxDescriptionLen = 500

type CreateInput struct {
	Description string
	Type        model.TransactionType
	Amount      float64
	Datetime    time.Time
}

type UpdateInput struct {
	Description *string
	Type        *model.TransactionType
	Amount      *float64
	Datetime    *time.Time
}

func (in UpdateInput) empty() bool {
	return in.Description == nil && in.Type == nil && in.Amount == nil && in.Datetime == nil
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func engine(store repository.Store) *crud.Engine[*model.Transaction] {
	return crud.New[*model.Transaction](store.Transactions(), "transaction")
}

func (s *Service) Create(ctx context.Context, tenantID, actorID uuid.UUID, in CreateInput) (*model.Transaction, error) {
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, apperrors.BadRequest("type must be INCOME or EXPENSE")
	}
	if in.Amount < 0 {
		return nil, apperrors.BadRequest("amount must not be negative")
	}
	if in.Datetime.IsZero() {
		return nil, apperrors.BadRequest("datetime is required")
	}

	transaction := &model.Transaction{
		TenantID:    tenantID,
		Description: description,
		Type:        in.Type,
		Amount:      in.Amount,
		Datetime:    in.Datetime,
	}
	transaction.CreatedBy = &actorID
	transaction.UpdatedBy = &actorID

	if err := s.store.Transactions().Create(ctx, transaction); err != nil {
		return nil, apperrors.Internal(err)
	}
	return transaction, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error) {
	return engine(s.store).Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter repository.ListFilter) ([]*model.Transaction, error) {
	return engine(s.store).List(ctx, tenantID, filter)
}

func (s *Service) Update(ctx context.Context, tenantID, id, actorID uuid.UUID, in UpdateInput) (*model.Transaction, error) {
	if in.empty() {
		return nil, apperrors.BadRequest("no fields to update")
	}

	var updated *model.Transaction
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		transaction, err := engine(tx).GetLive(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if in.Description != nil {
			description, err := validateDescription(*in.Description)
			if err != nil {
				return err
			}
			transaction.Description = description
		}
		if in.Type != nil {
			if !in.Type.IsValid() {
				return apperrors.BadRequest("type must be INCOME or EXPENSE")
			}
			transaction.Type = *in.Type
		}
		if in.Amount != nil {
			if *in.Amount < 0 {
				return apperrors.BadRequest("amount must not be negative")
			}
			transaction.Amount = *in.Amount
		}
		if in.Datetime != nil {
			if in.Datetime.IsZero() {
				return apperrors.BadRequest("datetime is required")
			}
			transaction.Datetime = *in.Datetime
		}
		transaction.UpdatedBy = &actorID

		if err := tx.Transactions().Update(ctx, transaction); err != nil {
			return apperrors.Internal(err)
		}
		updated = transaction
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

func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error) {
	return engine(s.store).Restore(ctx, tenantID, id)
}

func validateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if description == "" || len(description) > maxDescriptionLen {
		return "", apperrors.BadRequestf("description must be between 1 and %d characters", maxDescriptionLen)
	}
	return description, nil
}
