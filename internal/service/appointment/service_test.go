package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/appointment"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

func addDoctor(t *testing.T, store *repositorytest.Store, tenantID uuid.UUID) *model.Doctor {
	t.Helper()
	doctor := &model.Doctor{
		TenantID:         tenantID,
		FirstName:        "Ana",
		LastName:         "Souza",
		PercProfessional: 80,
		AppointmentFee:   200,
	}
	require.NoError(t, store.Doctors().Create(context.Background(), doctor))
	return doctor
}

func TestCreateSnapshotsDoctorRates(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := appointment.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()
	doctor := addDoctor(t, store, tenantID)

	created, err := svc.Create(ctx, tenantID, actorID, appointment.CreateInput{
		DoctorID: doctor.ID,
		Datetime: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, created.Fee)
	assert.Equal(t, 80.0, created.PercProfessional)
	assert.Equal(t, 160.0, created.ProfessionalShare())
	assert.Equal(t, 40.0, created.ClinicShare())

	// Raising the doctor's rates afterwards leaves the snapshot alone.
	doctor.PercProfessional = 90
	doctor.AppointmentFee = 500
	require.NoError(t, store.Doctors().Update(ctx, doctor))

	got, err := svc.Get(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.Fee)
	assert.Equal(t, 80.0, got.PercProfessional)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := appointment.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()
	doctor := addDoctor(t, store, tenantID)
	when := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, tenantID, actorID, appointment.CreateInput{DoctorID: doctor.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = svc.Create(ctx, tenantID, actorID, appointment.CreateInput{DoctorID: uuid.New(), Datetime: when})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	badFee := -1.0
	_, err = svc.Create(ctx, tenantID, actorID, appointment.CreateInput{DoctorID: doctor.ID, Datetime: when, Fee: &badFee})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	badPerc := 100.1
	_, err = svc.Create(ctx, tenantID, actorID, appointment.CreateInput{DoctorID: doctor.ID, Datetime: when, PercProfessional: &badPerc})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	// A soft-deleted doctor cannot take new appointments.
	now := time.Now()
	ok, err := store.Doctors().SetTombstone(ctx, tenantID, doctor.ID, &now, &actorID)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = svc.Create(ctx, tenantID, actorID, appointment.CreateInput{DoctorID: doctor.ID, Datetime: when})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestExplicitRatesWin(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := appointment.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()
	doctor := addDoctor(t, store, tenantID)

	fee, perc := 350.0, 50.0
	created, err := svc.Create(ctx, tenantID, actorID, appointment.CreateInput{
		DoctorID:         doctor.ID,
		Datetime:         time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Fee:              &fee,
		PercProfessional: &perc,
	})
	require.NoError(t, err)
	assert.Equal(t, 350.0, created.Fee)
	assert.Equal(t, 50.0, created.PercProfessional)
}

func TestListMonthFilter(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := appointment.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()
	doctor := addDoctor(t, store, tenantID)

	march, err := svc.Create(ctx, tenantID, actorID, appointment.CreateInput{
		DoctorID: doctor.ID,
		Datetime: time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, tenantID, actorID, appointment.CreateInput{
		DoctorID: doctor.ID,
		Datetime: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	month, err := model.ParseMonth("2026-03")
	require.NoError(t, err)

	list, err := svc.List(ctx, tenantID, repository.ListFilter{Month: &month})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, march.ID, list[0].ID)
}

func TestUpdateDeletedAppointmentRejected(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := appointment.NewService(store)
	tenantID, actorID := uuid.New(), uuid.New()
	doctor := addDoctor(t, store, tenantID)

	created, err := svc.Create(ctx, tenantID, actorID, appointment.CreateInput{
		DoctorID: doctor.ID,
		Datetime: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, tenantID, created.ID, actorID))

	fee := 100.0
	_, err = svc.Update(ctx, tenantID, created.ID, actorID, appointment.UpdateInput{Fee: &fee})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	restored, err := svc.Restore(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Fee, restored.Fee)
}
