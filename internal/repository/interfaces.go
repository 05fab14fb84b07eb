package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
)

// ListFilter controls soft-delete listing state and optional month filtering.
// IncludeDeleted flips the listing to exclusively tombstoned rows; the default
// is exclusively live rows. A listing never mixes the two.
type ListFilter struct {
	IncludeDeleted bool
	Month          *model.Month
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// Delete is a hard delete; users have no tombstone.
	Delete(ctx context.Context, id uuid.UUID) error
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	AddMembership(ctx context.Context, m *model.UserTenant) error
	// GetMembership resolves a membership whose tenant is live; nil when the
	// membership is absent or the tenant is soft-deleted.
	GetMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.UserTenant, error)
	// ListMemberships returns live-tenant memberships ordered by tenant
	// creation time ascending, the ordering login relies on.
	ListMemberships(ctx context.Context, userID uuid.UUID) ([]*model.TenantMembership, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Doctor, error)
	List(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error)
}

type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *model.Specialty) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Specialty, error)
	// GetLiveByName backs the per-tenant uniqueness check among live rows.
	GetLiveByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Specialty, error)
	List(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*model.Specialty, error)
	Update(ctx context.Context, specialty *model.Specialty) error
	SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*model.Appointment, error)
	// ListForDoctor returns live appointments for one doctor within a month.
	ListForDoctor(ctx context.Context, tenantID, doctorID uuid.UUID, month model.Month) ([]*model.Appointment, error)
	// ListForMonth returns live appointments for the whole tenant in a month.
	ListForMonth(ctx context.Context, tenantID uuid.UUID, month model.Month) ([]*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]*model.Transaction, error)
	ListForMonth(ctx context.Context, tenantID uuid.UUID, month model.Month) ([]*model.Transaction, error)
	Update(ctx context.Context, transaction *model.Transaction) error
	SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	UpdateTenant(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Store bundles the repositories and the transaction boundary. InTx hands the
// callback a Store whose repositories share one transaction; validate-then-
// persist sequences run inside it so they are atomic against concurrent
// writers.
type Store interface {
	Users() UserRepository
	Tenants() TenantRepository
	Doctors() DoctorRepository
	Specialties() SpecialtyRepository
	Appointments() AppointmentRepository
	Transactions() TransactionRepository
	Sessions() SessionRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
