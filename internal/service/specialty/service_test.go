package specialty_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/specialty"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := specialty.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	_, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "   "})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Dermatologia", DefaultFee: -1})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	created, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "  Dermatologia  ", DefaultFee: 150})
	require.NoError(t, err)
	assert.Equal(t, "Dermatologia", created.Name)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, actorID, *created.CreatedBy)
}

func TestNameUniquePerTenantAmongLive(t *testing.T) {
	ctx := context.Background()
	svc := specialty.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	first, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Cardiologia"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Cardiologia"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// Another tenant may use the same name.
	_, err = svc.Create(ctx, uuid.New(), actorID, specialty.CreateInput{Name: "Cardiologia"})
	assert.NoError(t, err)

	// A deleted row releases the name.
	require.NoError(t, svc.Delete(ctx, tenantID, first.ID, actorID))
	_, err = svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Cardiologia"})
	assert.NoError(t, err)
}

func TestUpdateGuards(t *testing.T) {
	ctx := context.Background()
	svc := specialty.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Cardiologia", DefaultFee: 100})
	require.NoError(t, err)
	other, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Ortopedia"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, tenantID, created.ID, actorID, specialty.UpdateInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	taken := "Ortopedia"
	_, err = svc.Update(ctx, tenantID, created.ID, actorID, specialty.UpdateInput{Name: &taken})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// Keeping your own name is fine while changing the fee.
	same := "Cardiologia"
	fee := 180.0
	updated, err := svc.Update(ctx, tenantID, created.ID, actorID, specialty.UpdateInput{Name: &same, DefaultFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, 180.0, updated.DefaultFee)

	// Deleted rows reject updates until restored.
	require.NoError(t, svc.Delete(ctx, tenantID, other.ID, actorID))
	newFee := 90.0
	_, err = svc.Update(ctx, tenantID, other.ID, actorID, specialty.UpdateInput{DefaultFee: &newFee})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	restored, err := svc.Restore(ctx, tenantID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ortopedia", restored.Name)
}

func TestListStates(t *testing.T) {
	ctx := context.Background()
	svc := specialty.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	live, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Cardiologia"})
	require.NoError(t, err)
	gone, err := svc.Create(ctx, tenantID, actorID, specialty.CreateInput{Name: "Ortopedia"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, tenantID, gone.ID, actorID))

	liveList, err := svc.List(ctx, tenantID, repository.ListFilter{})
	require.NoError(t, err)
	require.Len(t, liveList, 1)
	assert.Equal(t, live.ID, liveList[0].ID)

	deletedList, err := svc.List(ctx, tenantID, repository.ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, deletedList, 1)
	assert.Equal(t, gone.ID, deletedList[0].ID)
}
