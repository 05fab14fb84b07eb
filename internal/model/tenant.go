package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's role within a single tenant.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleDev   Role = "dev"
)

// IsValid reports whether the role is one of the known membership roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleDev
}

// IsAdminOrDev is the authorization gate for report endpoints.
func (r Role) IsAdminOrDev() bool {
	return r == RoleAdmin || r == RoleDev
}

// Tenant is an isolated organization; all clinic data is scoped to one.
type Tenant struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// UserTenant links a user to a tenant with a role. At most one row exists per
// (user, tenant) pair.
type UserTenant struct {
	UserID   uuid.UUID `json:"userId" db:"user_id"`
	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`
	Role     Role      `json:"role" db:"role"`
}

// TenantMembership is a tenant joined with the caller's role in it, ordered
// by tenant creation time wherever it is listed.
type TenantMembership struct {
	Tenant Tenant `json:"tenant"`
	Role   Role   `json:"role"`
}
