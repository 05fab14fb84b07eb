package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Audit carries actor stamps and the soft-delete tombstone shared by every
// tenant-scoped entity. A row with a non-nil DeletedAt is excluded from
// default listings and rejects mutation until restored.
type Audit struct {
	CreatedBy *uuid.UUID `json:"createdBy,omitempty" db:"created_by"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty" db:"updated_by"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	DeletedBy *uuid.UUID `json:"deletedBy,omitempty" db:"deleted_by"`
}

// Deleted reports whether the tombstone is set.
func (a *Audit) Deleted() bool {
	return a.DeletedAt != nil
}
