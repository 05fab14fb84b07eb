// Package session manages server-side login sessions. A session row lives in
// Postgres and is the single source of truth; Redis only caches reads and is
// invalidated on every mutation.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/pkg/auth"
	"github.com/vetdesk/backoffice-api/pkg/cache"
	apperrors "github.com/vetdesk/backoffice-api/pkg/errors"
)

const cacheKeyPrefix = "session:"

type Service struct {
	sessions repository.SessionRepository
	signer   auth.TokenSigner
	cache    *cache.Cache
	ttl      time.Duration
}

// NewService builds a session service. The cache may be nil, in which case
// every lookup goes straight to the repository.
func NewService(sessions repository.SessionRepository, signer auth.TokenSigner, cache *cache.Cache, ttl time.Duration) *Service {
	return &Service{
		sessions: sessions,
		signer:   signer,
		cache:    cache,
		ttl:      ttl,
	}
}

// Start opens a session for the user and returns it together with the signed
// cookie token.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID) (*model.Session, string, error) {
	now := time.Now()
	session := &model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TenantID:  tenantID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("failed to create session: %w", err))
	}

	token, err := s.signer.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("failed to sign session token: %w", err))
	}
	return session, token, nil
}

// Resolve maps a cookie token to its live session. Any failure along the way
// is an authentication failure; callers never learn which step rejected.
func (s *Service) Resolve(ctx context.Context, token string) (*model.Session, error) {
	sessionID, err := s.signer.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("not authenticated")
	}

	if session := s.cacheGet(ctx, sessionID); session != nil {
		if session.Expired(time.Now()) {
			s.cacheDelete(ctx, sessionID)
			return nil, apperrors.Unauthorized("not authenticated")
		}
		return session, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to load session: %w", err))
	}
	if session == nil {
		return nil, apperrors.Unauthorized("not authenticated")
	}
	if session.Expired(time.Now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("failed to delete expired session")
		}
		return nil, apperrors.Unauthorized("not authenticated")
	}

	s.cacheSet(ctx, session)
	return session, nil
}

// SwitchTenant repoints the session at another tenant. Membership checks are
// the caller's responsibility.
func (s *Service) SwitchTenant(ctx context.Context, sessionID uuid.UUID, tenantID uuid.UUID) error {
	if err := s.sessions.UpdateTenant(ctx, sessionID, &tenantID); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to switch session tenant: %w", err))
	}
	s.cacheDelete(ctx, sessionID)
	return nil
}

// End terminates the session. Ending an already-terminated session is a no-op.
func (s *Service) End(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to delete session: %w", err))
	}
	s.cacheDelete(ctx, sessionID)
	return nil
}

// PurgeExpired removes sessions past their expiry. Meant to run periodically.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now())
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) cacheGet(ctx context.Context, sessionID uuid.UUID) *model.Session {
	if s.cache == nil {
		return nil
	}
	var session model.Session
	ok, err := s.cache.Get(ctx, cacheKeyPrefix+sessionID.String(), &session)
	if err != nil {
		log.Warn().Err(err).Msg("session cache read failed")
		return nil
	}
	if !ok {
		return nil
	}
	return &session
}

func (s *Service) cacheSet(ctx context.Context, session *model.Session) {
	if s.cache == nil {
		return
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+session.ID.String(), session, ttl); err != nil {
		log.Warn().Err(err).Msg("session cache write failed")
	}
}

func (s *Service) cacheDelete(ctx context.Context, sessionID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyPrefix+sessionID.String()); err != nil {
		log.Warn().Err(err).Msg("session cache invalidation failed")
	}
}
