package crud_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/crud"
)

func mustFilter(t *testing.T, includeDeleted, month string) repository.ListFilter {
	t.Helper()
	filter, err := crud.ParseFilter(includeDeleted, month)
	require.NoError(t, err)
	return filter
}

func newDoctor(t *testing.T, store *repositorytest.Store, tenantID uuid.UUID, firstName string) *model.Doctor {
	t.Helper()
	doctor := &model.Doctor{
		TenantID:  tenantID,
		FirstName: firstName,
		LastName:  "Souza",
	}
	require.NoError(t, store.Doctors().Create(context.Background(), doctor))
	return doctor
}

func TestParseFilter(t *testing.T) {
	filter, err := crud.ParseFilter("true", "")
	require.NoError(t, err)
	assert.True(t, filter.IncludeDeleted)
	assert.Nil(t, filter.Month)

	filter, err = crud.ParseFilter("", "2026-02")
	require.NoError(t, err)
	assert.False(t, filter.IncludeDeleted)
	require.NotNil(t, filter.Month)
	assert.Equal(t, "2026-02", filter.Month.String())

	_, err = crud.ParseFilter("", "2026-13")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = crud.ParseFilter("yes", "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestEngineGet(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	tenantID := uuid.New()
	engine := crud.New[*model.Doctor](store.Doctors(), "doctor")

	doctor := newDoctor(t, store, tenantID, "Ana")

	got, err := engine.Get(ctx, tenantID, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, got.ID)

	_, err = engine.Get(ctx, tenantID, uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	// A record in another tenant is indistinguishable from a missing one.
	_, err = engine.Get(ctx, uuid.New(), doctor.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestEngineDeleteRestore(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	tenantID := uuid.New()
	actorID := uuid.New()
	engine := crud.New[*model.Doctor](store.Doctors(), "doctor")

	doctor := newDoctor(t, store, tenantID, "Ana")

	require.NoError(t, engine.Delete(ctx, tenantID, doctor.ID, actorID))

	got, err := engine.Get(ctx, tenantID, doctor.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, actorID, *got.DeletedBy)

	err = engine.Delete(ctx, tenantID, doctor.ID, actorID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	restored, err := engine.Restore(ctx, tenantID, doctor.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Nil(t, restored.DeletedBy)
	assert.Equal(t, doctor.FirstName, restored.FirstName)

	_, err = engine.Restore(ctx, tenantID, doctor.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestEngineDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	engine := crud.New[*model.Doctor](store.Doctors(), "doctor")

	err := engine.Delete(ctx, uuid.New(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestEngineGetLive(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	tenantID := uuid.New()
	engine := crud.New[*model.Doctor](store.Doctors(), "doctor")

	doctor := newDoctor(t, store, tenantID, "Ana")
	require.NoError(t, engine.Delete(ctx, tenantID, doctor.ID, uuid.New()))

	_, err := engine.GetLive(ctx, tenantID, doctor.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestEngineListStatesAreDisjoint(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	tenantID := uuid.New()
	engine := crud.New[*model.Doctor](store.Doctors(), "doctor")

	live := newDoctor(t, store, tenantID, "Ana")
	gone := newDoctor(t, store, tenantID, "Bia")
	require.NoError(t, engine.Delete(ctx, tenantID, gone.ID, uuid.New()))

	liveList, err := engine.List(ctx, tenantID, mustFilter(t, "", ""))
	require.NoError(t, err)
	require.Len(t, liveList, 1)
	assert.Equal(t, live.ID, liveList[0].ID)

	deletedList, err := engine.List(ctx, tenantID, mustFilter(t, "true", ""))
	require.NoError(t, err)
	require.Len(t, deletedList, 1)
	assert.Equal(t, gone.ID, deletedList[0].ID)
}
