package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment records a single visit. PercProfessional is snapshotted from
// the doctor at creation time and never recomputed when the doctor's rate
// changes later.
type Appointment struct {
	Base
	Audit
	TenantID         uuid.UUID `json:"-" db:"tenant_id"`
	DoctorID         uuid.UUID `json:"doctorId" db:"doctor_id"`
	Fee              float64   `json:"fee" db:"fee"`
	PercProfessional float64   `json:"percProfessional" db:"perc_professional"`
	Datetime         time.Time `json:"datetime" db:"datetime"`
}

// ProfessionalShare is the part of the fee kept by the doctor.
func (a *Appointment) ProfessionalShare() float64 {
	return a.Fee * a.PercProfessional / 100
}

// ClinicShare is the remainder accruing to the clinic.
func (a *Appointment) ClinicShare() float64 {
	return a.Fee - a.ProfessionalShare()
}
