package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
)

// Context keys set by the session middleware and read by handlers.
const (
	ContextRequestID = "request_id"
	ContextSessionID = "session_id"
	ContextUserID    = "user_id"
	ContextTenantID  = "tenant_id"
	ContextRole      = "role"
)

// UserID returns the authenticated user's id. Only valid behind Authenticate.
func UserID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ContextUserID).(uuid.UUID)
	return id
}

// SessionID returns the current session id. Only valid behind Authenticate.
func SessionID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ContextSessionID).(uuid.UUID)
	return id
}

// TenantID returns the session's active tenant, if any.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextTenantID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Role returns the caller's role in the active tenant. Only valid behind
// RequireTenant.
func Role(c *gin.Context) model.Role {
	role, _ := c.MustGet(ContextRole).(model.Role)
	return role
}
