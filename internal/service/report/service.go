// Package report aggregates monthly financials. Deleted rows never count,
// and doctor reports are dense: one row per calendar day whether or not
// anything happened.
package report

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

// DoctorDay is a single day's revenue split for a doctor. Entrada is gross
// appointment revenue; profissional and clinica split it by each
// appointment's snapshotted percentage.
type DoctorDay struct {
	Date             string  `json:"date"`
	AppointmentCount int     `json:"appointmentCount"`
	Entrada          float64 `json:"entrada"`
	Profissional     float64 `json:"profissional"`
	Clinica          float64 `json:"clinica"`
}

type IncomeOutcome struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Outcome float64 `json:"outcome"`
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// DoctorsReport returns exactly month.Days() rows covering the whole month,
// zero-valued where no appointments fall.
func (s *Service) DoctorsReport(ctx context.Context, tenantID, doctorID uuid.UUID, month model.Month) ([]DoctorDay, error) {
	doctor, err := s.store.Doctors().Get(ctx, tenantID, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if doctor == nil || doctor.Deleted() {
		return nil, apperrors.NotFound("doctor")
	}

	appointments, err := s.store.Appointments().ListForDoctor(ctx, tenantID, doctorID, month)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	days := make([]DoctorDay, month.Days())
	for i := range days {
		days[i].Date = month.Day(i + 1).Format("2006-01-02")
	}
	for _, a := range appointments {
		day := &days[a.Datetime.UTC().Day()-1]
		day.AppointmentCount++
		day.Entrada += a.Fee
		day.Profissional += a.ProfessionalShare()
	}
	for i := range days {
		days[i].Entrada = round2(days[i].Entrada)
		days[i].Profissional = round2(days[i].Profissional)
		days[i].Clinica = round2(days[i].Entrada - days[i].Profissional)
	}
	return days, nil
}

// MonthlyIncomeOutcome totals the clinic's side of appointment revenue plus
// manual INCOME entries against manual EXPENSE entries.
func (s *Service) MonthlyIncomeOutcome(ctx context.Context, tenantID uuid.UUID, month model.Month) (*IncomeOutcome, error) {
	appointments, err := s.store.Appointments().ListForMonth(ctx, tenantID, month)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	transactions, err := s.store.Transactions().ListForMonth(ctx, tenantID, month)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var income, outcome float64
	for _, a := range appointments {
		income += a.ClinicShare()
	}
	for _, t := range transactions {
		switch t.Type {
		case model.TransactionTypeIncome:
			income += t.Amount
		case model.TransactionTypeExpense:
			outcome += t.Amount
		}
	}

	return &IncomeOutcome{
		Month:   month.String(),
		Income:  round2(income),
		Outcome: round2(outcome),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
