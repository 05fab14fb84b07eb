package model

import (
	"github.com/google/uuid"
)

// Specialty names are unique per tenant among non-deleted rows.
type Specialty struct {
	Base
	Audit
	TenantID   uuid.UUID `json:"-" db:"tenant_id"`
	Name       string    `json:"name" db:"name"`
	DefaultFee float64   `json:"defaultFee" db:"default_fee"`
}
