package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backoffice-api/internal/email"
	"github.com/vetdesk/backoffice-api/internal/repository/repositorytest"
	"github.com/vetdesk/backoffice-api/internal/service/user"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
	"github.com/vetdesk/backoffice-api/pkg/security"
)

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendInvitation(to, firstName, tenantName string) error {
	m.sent = append(m.sent, to)
	return nil
}

var _ email.Mailer = (*recordingMailer)(nil)

func newService(store *repositorytest.Store, mailer email.Mailer) *user.Service {
	return user.NewService(store, security.NewBcryptHasher(4, "test-pepper"), mailer)
}

func validCreate() user.CreateInput {
	return user.CreateInput{
		Email:     "Luiz@Vetdesk.com",
		Password:  "s3cretpass",
		FirstName: "Luiz",
		LastName:  "Dias",
	}
}

func TestCreateNormalizesAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	mailer := &recordingMailer{}
	svc := newService(store, mailer)

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "luiz@vetdesk.com", created.Email)
	assert.NotEqual(t, "s3cretpass", created.PasswordHash)
	assert.Equal(t, []string{"luiz@vetdesk.com"}, mailer.sent)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(repositorytest.NewStore(), &recordingMailer{})

	tests := []struct {
		name   string
		mutate func(*user.CreateInput)
	}{
		{"bad email", func(in *user.CreateInput) { in.Email = "not-an-email" }},
		{"short password", func(in *user.CreateInput) { in.Password = "short" }},
		{"blank first name", func(in *user.CreateInput) { in.FirstName = "   " }},
		{"blank last name", func(in *user.CreateInput) { in.LastName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreate()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
		})
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newService(repositorytest.NewStore(), &recordingMailer{})

	_, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	in := validCreate()
	in.Email = "LUIZ@vetdesk.com"
	_, err = svc.Create(ctx, in)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := newService(store, &recordingMailer{})

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	newName := "Luís"
	updated, err := svc.Update(ctx, created.ID, user.UpdateInput{FirstName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Luís", updated.FirstName)
	assert.Equal(t, created.Email, updated.Email)

	_, err = svc.Update(ctx, created.ID, user.UpdateInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestUpdateEmailCollision(t *testing.T) {
	ctx := context.Background()
	svc := newService(repositorytest.NewStore(), &recordingMailer{})

	first, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	other := validCreate()
	other.Email = "ana@vetdesk.com"
	second, err := svc.Create(ctx, other)
	require.NoError(t, err)

	taken := first.Email
	_, err = svc.Update(ctx, second.ID, user.UpdateInput{Email: &taken})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// Re-submitting your own address is not a collision.
	_, err = svc.Update(ctx, second.ID, user.UpdateInput{Email: &second.Email})
	assert.NoError(t, err)
}

func TestUpdatePasswordRequiresOldPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(repositorytest.NewStore(), &recordingMailer{})

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	newPass := "newpassword1"
	_, err = svc.Update(ctx, created.ID, user.UpdateInput{Password: &newPass})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	wrong := "notTheOldOne"
	_, err = svc.Update(ctx, created.ID, user.UpdateInput{Password: &newPass, OldPassword: &wrong})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	old := "s3cretpass"
	_, err = svc.Update(ctx, created.ID, user.UpdateInput{Password: &newPass, OldPassword: &old})
	assert.NoError(t, err)
}

func TestDeleteIsHardAndNeverSelf(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	svc := newService(store, &recordingMailer{})

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	admin := uuid.New()
	require.NoError(t, svc.Delete(ctx, created.ID, admin))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	err = svc.Delete(ctx, created.ID, admin)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
