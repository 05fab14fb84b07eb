package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/auth"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
	"github.com/vetdesk/backoffice-api/pkg/security"
)

const testPepper = "test-pepper"

type fixture struct {
	store  *repositorytest.Store
	svc    *auth.Service
	hasher security.PasswordHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositorytest.NewStore()
	hasher := security.NewBcryptHasher(4, testPepper)
	return &fixture{
		store:  store,
		svc:    auth.NewService(store.Users(), store.Tenants(), hasher),
		hasher: hasher,
	}
}

func (f *fixture) addUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	user := &model.User{Email: email, PasswordHash: hash, FirstName: "Luiz", LastName: "Dias"}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user
}

func (f *fixture) addTenant(t *testing.T, name string, userID uuid.UUID, role model.Role) *model.Tenant {
	t.Helper()
	ctx := context.Background()
	tenant := &model.Tenant{Name: name}
	require.NoError(t, f.store.Tenants().Create(ctx, tenant))
	require.NoError(t, f.store.Tenants().AddMembership(ctx, &model.UserTenant{
		UserID: userID, TenantID: tenant.ID, Role: role,
	}))
	return tenant
}

func TestLoginSelectsOldestTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.addUser(t, "luiz@vetdesk.com", "s3cretpass")
	first := f.addTenant(t, "Vita Center", user.ID, model.RoleAdmin)
	f.addTenant(t, "Clínica Luiz", user.ID, model.RoleUser)

	identity, err := f.svc.Login(ctx, "  Luiz@Vetdesk.COM ", "s3cretpass")
	require.NoError(t, err)
	require.NotNil(t, identity.Tenant)
	assert.Equal(t, first.ID, identity.Tenant.ID)
	assert.Equal(t, model.RoleAdmin, identity.Role)
	assert.Len(t, identity.Tenants, 2)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "luiz@vetdesk.com", "s3cretpass")

	_, errUnknown := f.svc.Login(ctx, "nobody@vetdesk.com", "s3cretpass")
	_, errBadPass := f.svc.Login(ctx, "luiz@vetdesk.com", "wrongpass")

	require.Error(t, errUnknown)
	require.Error(t, errBadPass)
	assert.True(t, apperrors.IsCode(errUnknown, apperrors.ErrUnauthorized))
	assert.True(t, apperrors.IsCode(errBadPass, apperrors.ErrUnauthorized))
	assert.Equal(t, apperrors.Message(errUnknown), apperrors.Message(errBadPass))
}

func TestLoginWithoutTenants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "luiz@vetdesk.com", "s3cretpass")

	identity, err := f.svc.Login(ctx, "luiz@vetdesk.com", "s3cretpass")
	require.NoError(t, err)
	assert.Nil(t, identity.Tenant)
	assert.Empty(t, identity.Role)
	assert.Empty(t, identity.Tenants)
}

func TestSwitchTenantRequiresMembership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.addUser(t, "luiz@vetdesk.com", "s3cretpass")
	f.addTenant(t, "Vita Center", user.ID, model.RoleAdmin)

	stranger := &model.Tenant{Name: "Somewhere Else"}
	require.NoError(t, f.store.Tenants().Create(ctx, stranger))

	_, err := f.svc.SwitchTenant(ctx, user.ID, stranger.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestSwitchTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.addUser(t, "luiz@vetdesk.com", "s3cretpass")
	f.addTenant(t, "Vita Center", user.ID, model.RoleAdmin)
	second := f.addTenant(t, "Clínica Luiz", user.ID, model.RoleUser)

	identity, err := f.svc.SwitchTenant(ctx, user.ID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, identity.Tenant)
	assert.Equal(t, second.ID, identity.Tenant.ID)
	assert.Equal(t, model.RoleUser, identity.Role)
}

func TestDeletedTenantIsInvisible(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.addUser(t, "luiz@vetdesk.com", "s3cretpass")
	kept := f.addTenant(t, "Vita Center", user.ID, model.RoleAdmin)

	now := time.Now()
	gone := &model.Tenant{Name: "Closed Clinic", DeletedAt: &now}
	require.NoError(t, f.store.Tenants().Create(ctx, gone))
	require.NoError(t, f.store.Tenants().AddMembership(ctx, &model.UserTenant{
		UserID: user.ID, TenantID: gone.ID, Role: model.RoleAdmin,
	}))

	tenants, err := f.svc.GetAvailableTenants(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, kept.ID, tenants[0].Tenant.ID)

	_, err = f.svc.SwitchTenant(ctx, user.ID, gone.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestGetCurrentUserDegradesUnreachableTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.addUser(t, "luiz@vetdesk.com", "s3cretpass")
	kept := f.addTenant(t, "Vita Center", user.ID, model.RoleAdmin)
	unreachable := uuid.New()

	identity, err := f.svc.GetCurrentUser(ctx, user.ID, &unreachable)
	require.NoError(t, err)
	require.NotNil(t, identity.Tenant)
	assert.Equal(t, kept.ID, identity.Tenant.ID)

	_, err = f.svc.GetCurrentUser(ctx, uuid.New(), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
