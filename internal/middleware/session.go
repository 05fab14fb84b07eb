package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/service/session"
)

const (
	membershipCacheTTL     = time.Minute
	membershipCacheCleanup = 5 * time.Minute
)

// SessionMiddleware resolves the session cookie into request identity. Tenant
// membership lookups are memoized briefly so hot tenants do not hit the
// database on every request.
type SessionMiddleware struct {
	sessions    *session.Service
	tenants     repository.TenantRepository
	cookieName  string
	memberships *gocache.Cache
}

func NewSessionMiddleware(sessions *session.Service, tenants repository.TenantRepository, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:    sessions,
		tenants:     tenants,
		cookieName:  cookieName,
		memberships: gocache.New(membershipCacheTTL, membershipCacheCleanup),
	}
}

// Authenticate rejects requests without a valid session cookie and stores the
// resolved identity on the context.
func (m *SessionMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		sess, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextSessionID, sess.ID)
		c.Set(ContextUserID, sess.UserID)
		if sess.TenantID != nil {
			c.Set(ContextTenantID, *sess.TenantID)
		}
		c.Next()
	}
}

// RequireTenant demands an active tenant on the session and a live membership
// in it, and exposes the membership role to handlers.
func (m *SessionMiddleware) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := TenantID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "no tenant selected"})
			return
		}

		role, ok := m.lookupRole(c, UserID(c), tenantID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied"})
			return
		}

		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireAdminOrDev gates report endpoints. Must run behind RequireTenant.
func (m *SessionMiddleware) RequireAdminOrDev() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Role(c).IsAdminOrDev() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied"})
			return
		}
		c.Next()
	}
}

func (m *SessionMiddleware) lookupRole(c *gin.Context, userID, tenantID uuid.UUID) (model.Role, bool) {
	key := membershipKey(userID, tenantID)
	if cached, found := m.memberships.Get(key); found {
		role, ok := cached.(model.Role)
		return role, ok
	}

	membership, err := m.tenants.GetMembership(c.Request.Context(), userID, tenantID)
	if err != nil || membership == nil {
		return "", false
	}
	m.memberships.Set(key, membership.Role, gocache.DefaultExpiration)
	return membership.Role, true
}

func membershipKey(userID, tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", userID, tenantID)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
}
