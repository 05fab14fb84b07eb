package transaction_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/transaction"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

func validCreate() transaction.CreateInput {
	return transaction.CreateInput{
		Description: "Compra de vacinas",
		Type:        model.TransactionTypeExpense,
		Amount:      350,
		Datetime:    time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := transaction.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, tenantID, actorID, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "Compra de vacinas", created.Description)

	tests := []struct {
		name   string
		mutate func(*transaction.CreateInput)
	}{
		{"blank description", func(in *transaction.CreateInput) { in.Description = "   " }},
		{"oversized description", func(in *transaction.CreateInput) { in.Description = strings.Repeat("a", 501) }},
		{"unknown type", func(in *transaction.CreateInput) { in.Type = "TRANSFER" }},
		{"negative amount", func(in *transaction.CreateInput) { in.Amount = -0.01 }},
		{"zero datetime", func(in *transaction.CreateInput) { in.Datetime = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreate()
			tt.mutate(&in)
			_, err := svc.Create(ctx, tenantID, actorID, in)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
		})
	}
}

func TestUpdatePartialAndDeletedGuard(t *testing.T) {
	ctx := context.Background()
	svc := transaction.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, tenantID, actorID, validCreate())
	require.NoError(t, err)

	income := model.TransactionTypeIncome
	updated, err := svc.Update(ctx, tenantID, created.ID, actorID, transaction.UpdateInput{Type: &income})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionTypeIncome, updated.Type)
	assert.Equal(t, created.Amount, updated.Amount)

	_, err = svc.Update(ctx, tenantID, created.ID, actorID, transaction.UpdateInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	require.NoError(t, svc.Delete(ctx, tenantID, created.ID, actorID))
	amount := 100.0
	_, err = svc.Update(ctx, tenantID, created.ID, actorID, transaction.UpdateInput{Amount: &amount})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestListMonthFilter(t *testing.T) {
	ctx := context.Background()
	svc := transaction.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	in := validCreate()
	in.Datetime = time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)
	feb, err := svc.Create(ctx, tenantID, actorID, in)
	require.NoError(t, err)

	in = validCreate()
	in.Datetime = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, tenantID, actorID, in)
	require.NoError(t, err)

	month, err := model.ParseMonth("2026-02")
	require.NoError(t, err)

	list, err := svc.List(ctx, tenantID, repository.ListFilter{Month: &month})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, feb.ID, list[0].ID)
}
