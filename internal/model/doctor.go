package model

import (
	"github.com/google/uuid"
)

// Doctor is a treating professional. PercProfessional is the share of an
// appointment fee the professional keeps; AppointmentFee is the default fee
// proposed for new appointments.
type Doctor struct {
	Base
	Audit
	TenantID         uuid.UUID  `json:"-" db:"tenant_id"`
	FirstName        string     `json:"firstName" db:"first_name"`
	LastName         string     `json:"lastName" db:"last_name"`
	CRM              *string    `json:"crm" db:"crm"`
	SpecialtyID      *uuid.UUID `json:"specialtyId" db:"specialty_id"`
	PercProfessional float64    `json:"percProfessional" db:"perc_professional"`
	AppointmentFee   float64    `json:"appointmentFee" db:"appointment_fee"`
}
