package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/report"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

func month(t *testing.T, s string) model.Month {
	t.Helper()
	m, err := model.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func addDoctor(t *testing.T, store *repositorytest.Store, tenantID uuid.UUID) *model.Doctor {
	t.Helper()
	doctor := &model.Doctor{TenantID: tenantID, FirstName: "Ana", LastName: "Souza", PercProfessional: 80, AppointmentFee: 200}
	require.NoError(t, store.Doctors().Create(context.Background(), doctor))
	return doctor
}

func addAppointment(t *testing.T, store *repositorytest.Store, tenantID uuid.UUID, doctorID uuid.UUID, fee, perc float64, at time.Time) *model.Appointment {
	t.Helper()
	a := &model.Appointment{TenantID: tenantID, DoctorID: doctorID, Fee: fee, PercProfessional: perc, Datetime: at}
	require.NoError(t, store.Appointments().Create(context.Background(), a))
	return a
}

func addTransaction(t *testing.T, store *repositorytest.Store, tenantID uuid.UUID, typ model.TransactionType, amount float64, at time.Time) {
	t.Helper()
	tr := &model.Transaction{TenantID: tenantID, Description: "x", Type: typ, Amount: amount, Datetime: at}
	require.NoError(t, store.Transactions().Create(context.Background(), tr))
}

func TestDoctorsReportDenseAndSplit(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := report.NewService(store)
	tenantID := uuid.New()
	doctor := addDoctor(t, store, tenantID)

	addAppointment(t, store, tenantID, doctor.ID, 200, 80, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	addAppointment(t, store, tenantID, doctor.ID, 100, 50, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))

	days, err := svc.DoctorsReport(ctx, tenantID, doctor.ID, month(t, "2026-03"))
	require.NoError(t, err)
	require.Len(t, days, 31)

	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Equal(t, "2026-03-31", days[30].Date)

	day := days[9]
	assert.Equal(t, "2026-03-10", day.Date)
	assert.Equal(t, 2, day.AppointmentCount)
	assert.Equal(t, 300.0, day.Entrada)
	assert.Equal(t, 210.0, day.Profissional)
	assert.Equal(t, 90.0, day.Clinica)

	for i, d := range days {
		if i == 9 {
			continue
		}
		assert.Zero(t, d.AppointmentCount)
		assert.Zero(t, d.Entrada)
		assert.Zero(t, d.Profissional)
		assert.Zero(t, d.Clinica)
	}
}

func TestDoctorsReportEmptyMonthIsAllZeros(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := report.NewService(store)
	tenantID := uuid.New()
	doctor := addDoctor(t, store, tenantID)

	days, err := svc.DoctorsReport(ctx, tenantID, doctor.ID, month(t, "2026-02"))
	require.NoError(t, err)
	require.Len(t, days, 28)
	for _, d := range days {
		assert.Zero(t, d.Entrada)
		assert.Zero(t, d.AppointmentCount)
	}
}

func TestDoctorsReportRounding(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := report.NewService(store)
	tenantID := uuid.New()
	doctor := addDoctor(t, store, tenantID)

	// 99.99 * 33.33% = 33.326667, rounds to 33.33.
	addAppointment(t, store, tenantID, doctor.ID, 99.99, 33.33, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))

	days, err := svc.DoctorsReport(ctx, tenantID, doctor.ID, month(t, "2026-03"))
	require.NoError(t, err)
	day := days[4]
	assert.Equal(t, 99.99, day.Entrada)
	assert.Equal(t, 33.33, day.Profissional)
	assert.Equal(t, 66.66, day.Clinica)
}

func TestDoctorsReportUnknownDoctor(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := report.NewService(store)
	tenantID := uuid.New()

	_, err := svc.DoctorsReport(ctx, tenantID, uuid.New(), month(t, "2026-03"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	// Cross-tenant doctors are missing doctors.
	other := addDoctor(t, store, uuid.New())
	_, err = svc.DoctorsReport(ctx, tenantID, other.ID, month(t, "2026-03"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestDoctorsReportIgnoresDeletedAppointments(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := report.NewService(store)
	tenantID := uuid.New()
	doctor := addDoctor(t, store, tenantID)

	kept := addAppointment(t, store, tenantID, doctor.ID, 200, 80, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	gone := addAppointment(t, store, tenantID, doctor.ID, 500, 80, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC))
	now := time.Now()
	ok, err := store.Appointments().SetTombstone(ctx, tenantID, gone.ID, &now, &doctor.ID)
	require.NoError(t, err)
	require.True(t, ok)

	days, err := svc.DoctorsReport(ctx, tenantID, doctor.ID, month(t, "2026-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, days[9].AppointmentCount)
	assert.Equal(t, kept.Fee, days[9].Entrada)
}

func TestMonthlyIncomeOutcome(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := report.NewService(store)
	tenantID := uuid.New()
	doctor := addDoctor(t, store, tenantID)
	march := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	// Clinic keeps 40 of this 200/80% appointment.
	addAppointment(t, store, tenantID, doctor.ID, 200, 80, march)
	addTransaction(t, store, tenantID, model.TransactionTypeIncome, 1000, march)
	addTransaction(t, store, tenantID, model.TransactionTypeExpense, 250.50, march)
	// Other months stay out.
	addTransaction(t, store, tenantID, model.TransactionTypeExpense, 9999, march.AddDate(0, 1, 0))

	result, err := svc.MonthlyIncomeOutcome(ctx, tenantID, month(t, "2026-03"))
	require.NoError(t, err)
	assert.Equal(t, "2026-03", result.Month)
	assert.Equal(t, 1040.0, result.Income)
	assert.Equal(t, 250.50, result.Outcome)
}

func TestMonthlyIncomeOutcomeEmpty(t *testing.T) {
	ctx := context.Background()
	svc := report.NewService(repositorytest.NewStore())

	result, err := svc.MonthlyIncomeOutcome(ctx, uuid.New(), month(t, "2026-03"))
	require.NoError(t, err)
	assert.Zero(t, result.Income)
	assert.Zero(t, result.Outcome)
}
