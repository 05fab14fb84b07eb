package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login session. The cookie only carries the session
// id (signed); everything else lives in this row so revocation is a delete.
type Session struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	TenantID  *uuid.UUID `json:"tenantId" db:"tenant_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time  `json:"expiresAt" db:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
