// Package user manages user accounts. Users are shared across tenants and
// are never soft-deleted: delete is a hard delete and restore does not exist
// for them.
package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/backoffice-api/internal/email"
	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
	"github.com/vetdesk/backoffice-api/pkg/security"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLen = 8
	maxPasswordLen = 100
	maxNameLen     = 100
)

type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	AvatarURL *string

	// TenantID is only used to name the inviting clinic in the mail.
	TenantID *uuid.UUID
}

// UpdateInput carries a partial update; nil fields are left untouched.
// Changing the password requires proving knowledge of the old one.
type UpdateInput struct {
	Email       *string
	FirstName   *string
	LastName    *string
	AvatarURL   *string
	Password    *string
	OldPassword *string
}

func (in UpdateInput) empty() bool {
	return in.Email == nil && in.FirstName == nil && in.LastName == nil &&
		in.AvatarURL == nil && in.Password == nil
}

type Service struct {
	store  repository.Store
	hasher security.PasswordHasher
	mailer email.Mailer
}

func NewService(store repository.Store, hasher security.PasswordHasher, mailer email.Mailer) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		mailer: mailer,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*model.User, error) {
	emailAddr, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	firstName, err := requireName("firstName", in.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := requireName("lastName", in.LastName)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return nil, apperrors.BadRequestf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Email:        emailAddr,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		AvatarURL:    trimOptional(in.AvatarURL),
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Users().GetByEmail(ctx, emailAddr)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("failed to check email: %w", err))
		}
		if existing != nil {
			return apperrors.Conflict("email already in use")
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendInvitation(user.Email, user.FirstName, s.tenantName(ctx, in.TenantID)); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("invitation email not sent")
	}
	return user, nil
}

func (s *Service) tenantName(ctx context.Context, tenantID *uuid.UUID) string {
	if tenantID == nil {
		return "VetDesk"
	}
	tenant, err := s.store.Tenants().Get(ctx, *tenantID)
	if err != nil || tenant == nil {
		return "VetDesk"
	}
	return tenant.Name
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*model.User, error) {
	if in.empty() {
		return nil, apperrors.BadRequest("no fields to update")
	}

	var updated *model.User
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().Get(ctx, id)
		if err != nil {
			return apperrors.Internal(err)
		}
		if user == nil {
			return apperrors.NotFound("user")
		}

		if in.Email != nil {
			emailAddr, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			if emailAddr != user.Email {
				other, err := tx.Users().GetByEmail(ctx, emailAddr)
				if err != nil {
					return apperrors.Internal(fmt.Errorf("failed to check email: %w", err))
				}
				if other != nil && other.ID != user.ID {
					return apperrors.Conflict("email already in use")
				}
			}
			user.Email = emailAddr
		}
		if in.FirstName != nil {
			firstName, err := requireName("firstName", *in.FirstName)
			if err != nil {
				return err
			}
			user.FirstName = firstName
		}
		if in.LastName != nil {
			lastName, err := requireName("lastName", *in.LastName)
			if err != nil {
				return err
			}
			user.LastName = lastName
		}
		if in.AvatarURL != nil {
			user.AvatarURL = trimOptional(in.AvatarURL)
		}
		if in.Password != nil {
			if in.OldPassword == nil || s.hasher.Compare(user.PasswordHash, *in.OldPassword) != nil {
				return apperrors.BadRequest("old password does not match")
			}
			if len(*in.Password) < minPasswordLen || len(*in.Password) > maxPasswordLen {
				return apperrors.BadRequestf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
			}
			hash, err := s.hasher.Hash(*in.Password)
			if err != nil {
				return apperrors.Internal(err)
			}
			user.PasswordHash = hash
		}

		if err := tx.Users().Update(ctx, user); err != nil {
			return apperrors.Internal(err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a user permanently. A user may never delete themself.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return apperrors.BadRequest("cannot delete your own user")
	}

	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if user == nil {
		return apperrors.NotFound("user")
	}
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(emailAddr) {
		return "", apperrors.BadRequest("invalid email address")
	}
	return emailAddr, nil
}

func requireName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > maxNameLen {
		return "", apperrors.BadRequestf("%s must be between 1 and %d characters", field, maxNameLen)
	}
	return name, nil
}

func trimOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil
	}
	return &v
}
