package doctor_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/doctor"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

func addSpecialty(t *testing.T, store *repositorytest.Store, tenantID uuid.UUID, name string) *model.Specialty {
	t.Helper()
	specialty := &model.Specialty{TenantID: tenantID, Name: name}
	require.NoError(t, store.Specialties().Create(context.Background(), specialty))
	return specialty
}

func validCreate() doctor.CreateInput {
	return doctor.CreateInput{
		FirstName:        "Ana",
		LastName:         "Souza",
		PercProfessional: 80,
		AppointmentFee:   200,
	}
}

func TestCreateTrimsAndStamps(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := doctor.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()

	in := validCreate()
	in.FirstName = "  Ana  "
	crm := "  CRM-1234  "
	in.CRM = &crm

	created, err := svc.Create(ctx, tenantID, actorID, in)
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.FirstName)
	require.NotNil(t, created.CRM)
	assert.Equal(t, "CRM-1234", *created.CRM)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, actorID, *created.CreatedBy)
}

func TestPercentageBoundaries(t *testing.T) {
	ctx := context.Background()
	svc := doctor.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	for _, perc := range []float64{0, 100} {
		in := validCreate()
		in.PercProfessional = perc
		_, err := svc.Create(ctx, tenantID, actorID, in)
		assert.NoError(t, err, "perc=%v", perc)
	}
	for _, perc := range []float64{-0.1, 100.1} {
		in := validCreate()
		in.PercProfessional = perc
		_, err := svc.Create(ctx, tenantID, actorID, in)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest), "perc=%v", perc)
	}
}

func TestCreateSpecialtyMustResolveLiveInTenant(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := doctor.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()

	specialty := addSpecialty(t, store, tenantID, "Cardiologia")
	foreign := addSpecialty(t, store, uuid.New(), "Ortopedia")

	in := validCreate()
	in.SpecialtyID = &specialty.ID
	created, err := svc.Create(ctx, tenantID, actorID, in)
	require.NoError(t, err)
	assert.Equal(t, specialty.ID, *created.SpecialtyID)

	in = validCreate()
	in.SpecialtyID = &foreign.ID
	_, err = svc.Create(ctx, tenantID, actorID, in)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	deleted, err := store.Specialties().SetTombstone(ctx, tenantID, specialty.ID, ptrTime(), &actorID)
	require.NoError(t, err)
	require.True(t, deleted)

	in = validCreate()
	in.SpecialtyID = &specialty.ID
	_, err = svc.Create(ctx, tenantID, actorID, in)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestDeleteRestoreKeepsFields(t *testing.T) {
	ctx := context.Background()
	svc := doctor.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, tenantID, actorID, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tenantID, created.ID, actorID))

	fee := 300.0
	_, err = svc.Update(ctx, tenantID, created.ID, actorID, doctor.UpdateInput{AppointmentFee: &fee})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	restored, err := svc.Restore(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.PercProfessional, restored.PercProfessional)
	assert.Equal(t, created.AppointmentFee, restored.AppointmentFee)
	assert.Nil(t, restored.DeletedAt)
}

func TestCrossTenantIsInvisible(t *testing.T) {
	ctx := context.Background()
	svc := doctor.NewService(repositorytest.NewStore())
	tenantID, actorID := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, tenantID, actorID, validCreate())
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	err = svc.Delete(ctx, uuid.New(), created.ID, actorID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func ptrTime() *time.Time {
	now := time.Now()
	return &now
}
