// Package auth resolves credentials and tenant membership into an identity.
// Session and cookie lifecycle belong to the handler layer; this service only
// answers who the caller is and which tenants they may act in.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
	"github.com/vetdesk/backoffice-api/pkg/security"
)

// Identity is the authenticated view returned by login, init and
// switch-tenant. Tenant and Role are empty until a tenant is selected.
type Identity struct {
	User    *model.User               `json:"user"`
	Tenant  *model.Tenant             `json:"tenant,omitempty"`
	Role    model.Role                `json:"role,omitempty"`
	Tenants []*model.TenantMembership `json:"tenants"`
}

type Service struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	hasher  security.PasswordHasher
}

func NewService(users repository.UserRepository, tenants repository.TenantRepository, hasher security.PasswordHasher) *Service {
	return &Service{
		users:   users,
		tenants: tenants,
		hasher:  hasher,
	}
}

// Login authenticates an email/password pair. Unknown email and wrong
// password both come back as the same Unauthorized so callers cannot probe
// which addresses exist.
func (s *Service) Login(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}
	if user == nil || s.hasher.Compare(user.PasswordHash, password) != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	return s.buildIdentity(ctx, user, nil)
}

// GetCurrentUser rebuilds the identity for an established session. A tenant
// the session points at but the user can no longer reach (revoked membership,
// deleted tenant) degrades to the first available tenant.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID) (*Identity, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}
	if user == nil {
		return nil, apperrors.Unauthorized("not authenticated")
	}
	return s.buildIdentity(ctx, user, tenantID)
}

// GetAvailableTenants lists the user's live tenants in login order.
func (s *Service) GetAvailableTenants(ctx context.Context, userID uuid.UUID) ([]*model.TenantMembership, error) {
	memberships, err := s.tenants.ListMemberships(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list tenants: %w", err))
	}
	return memberships, nil
}

// SwitchTenant validates that the user belongs to the target tenant and
// returns the refreshed identity. The caller rotates the session afterwards;
// a rejected switch leaves the session tenant untouched.
func (s *Service) SwitchTenant(ctx context.Context, userID, tenantID uuid.UUID) (*Identity, error) {
	membership, err := s.tenants.GetMembership(ctx, userID, tenantID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to check membership: %w", err))
	}
	if membership == nil {
		return nil, apperrors.BadRequest("user does not belong to this tenant")
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}
	if user == nil {
		return nil, apperrors.Unauthorized("not authenticated")
	}
	return s.buildIdentity(ctx, user, &tenantID)
}

// buildIdentity assembles user + memberships and selects the active tenant:
// the requested one when reachable, otherwise the oldest live tenant.
func (s *Service) buildIdentity(ctx context.Context, user *model.User, tenantID *uuid.UUID) (*Identity, error) {
	memberships, err := s.tenants.ListMemberships(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list tenants: %w", err))
	}

	identity := &Identity{User: user, Tenants: memberships}

	var active *model.TenantMembership
	if tenantID != nil {
		for _, m := range memberships {
			if m.Tenant.ID == *tenantID {
				active = m
				break
			}
		}
	}
	if active == nil && len(memberships) > 0 {
		active = memberships[0]
	}
	if active != nil {
		tenant := active.Tenant
		identity.Tenant = &tenant
		identity.Role = active.Role
	}
	return identity, nil
}
